package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
)

var errFindArgs = errors.New("find needs a slide name and a view id")

// dateLen is the length of the canonical YYYY-MM-DD prefix in slide names.
const dateLen = 10

func cmdFind(o *IO, cfg shot.Config, args []string) error {
	flagSet := flag.NewFlagSet("find", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 2 {
		return errFindArgs
	}

	slideName := flagSet.Arg(0)
	viewID := flagSet.Arg(1)

	s := openStore(cfg)

	// Slide names carry the capture date as a prefix; materialize that date
	// so the lookup sees it.
	if len(slideName) >= dateLen {
		s.LoadDate(slideName[:dateLen])
	}

	sc := s.Find(slideName, viewID)
	if sc.IsZero() {
		// The empty sentinel is a defined result, not an error.
		o.Println("no matching screenshot")

		return nil
	}

	o.Printf("slide:   %s\n", sc.SlideName)
	o.Printf("view:    %s\n", sc.ViewID)
	o.Printf("date:    %s %s\n", sc.Date, sc.Time)
	o.Printf("kind:    %s (component %d)\n", sc.Kind(), sc.Component)
	o.Printf("format:  %s\n", sc.Format)
	o.Printf("path:    %s\n", sc.Path)

	if sc.WindowTitle != "" {
		o.Printf("window:  %s\n", sc.WindowTitle)
	}

	if sc.ProcessName != "" {
		o.Printf("process: %s\n", sc.ProcessName)
	}

	if sc.Note != "" {
		o.Printf("note:    %s\n", sc.Note)
	}

	return nil
}
