package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
)

// addTimeLayout accepts the capture timestamp override for --at.
const addTimeLayout = "2006-01-02 15:04:05.000"

func cmdAdd(o *IO, cfg shot.Config, args []string) error {
	flagSet := flag.NewFlagSet("add", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	component := flagSet.Int("component", shot.ComponentActiveWindow,
		"Component selector: -1 region, 0 active window, >0 screen number")
	viewID := flagSet.String("view-id", "", "View id of the producing screen config")
	path := flagSet.String("path", "", "Image file path (defaults into the image dir)")
	format := flagSet.String("image-format", "", "Image format name")
	window := flagSet.String("window-title", "", "Window title at capture time")
	process := flagSet.String("process-name", "", "Process that owned the window")
	note := flagSet.String("note", "", "Free-text annotation")
	at := flagSet.String("at", "", "Capture timestamp override (\""+addTimeLayout+"\")")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	formats := shot.DefaultFormats()

	formatName := *format
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}

	desc, ok := formats.Find(formatName)
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", shot.ErrUnknownFormat, formatName,
			strings.Join(formats.Names(), ", "))
	}

	now := time.Now()

	if *at != "" {
		parsed, err := time.ParseInLocation(addTimeLayout, *at, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at timestamp %q: %w", *at, err)
		}

		now = parsed
	}

	id := *viewID
	if id == "" {
		id = shot.NewScreenSet().Register(*component)
	}

	imagePath := *path
	if imagePath == "" {
		imagePath = defaultImagePath(cfg, now, desc)
	}

	sc := shot.New(now, id, imagePath, desc.Name, *component)
	sc.WindowTitle = *window
	sc.ProcessName = *process
	sc.Note = *note

	s := openStore(cfg)

	// Materialize the capture's date first so Add can dedup against
	// records persisted by earlier runs.
	s.LoadDate(sc.Date)

	if !s.Add(sc) {
		o.Warn(fmt.Sprintf("duplicate record for slide %q, nothing added", sc.SlideName))

		return nil
	}

	s.Sync()

	persisted := s.Find(sc.SlideName, sc.ViewID)
	if persisted.IsZero() || !persisted.Persisted {
		o.Warn("record did not reach the store document; see the log")
	}

	o.Printf("recorded %s  view=%s  kind=%s\n", sc.SlideName, sc.ViewID, sc.Kind())

	return nil
}

// defaultImagePath places the image under the configured image dir, named
// after the capture timestamp with filesystem-safe separators.
func defaultImagePath(cfg shot.Config, now time.Time, format shot.Format) string {
	dir := cfg.ImageDirAbs
	if dir == "" {
		dir = cfg.EffectiveCwd
	}

	millis := now.Nanosecond() / int(time.Millisecond)
	name := fmt.Sprintf("%s-%03d.%s", now.Format("2006-01-02_15-04-05"), millis, format.Extension)

	return filepath.Join(dir, name)
}
