package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
	"github.com/grabworks/shotlog/internal/store"
)

var errDateRequired = errors.New("a date is required (YYYY-MM-DD)")

func cmdSlides(o *IO, cfg shot.Config, args []string, sigCh <-chan os.Signal) error {
	flagSet := flag.NewFlagSet("slides", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	filterFlags := addFilterFlags(flagSet)
	watch := flagSet.Bool("watch", false, "Keep watching the store and re-list on change")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errDateRequired
	}

	date := flagSet.Arg(0)

	filter, err := filterFlags.resolve(flagSet)
	if err != nil {
		return err
	}

	printSlides(o, openStore(cfg), filter, date)

	if !*watch {
		return nil
	}

	return watchSlides(o, cfg, filter, date, sigCh)
}

func printSlides(o *IO, s *store.Store, filter *store.Filter, date string) {
	for _, slide := range s.Slides(filter, date) {
		o.Printf("%s\t%s\n", slide.Name, slide.Value)
	}
}

// watchSlides re-runs the listing whenever the backing document changes on
// disk, until an interrupt arrives. The producer rewrites the document via
// rename, so watch the directory and match on the file name.
func watchSlides(o *IO, cfg shot.Config, filter *store.Filter, date string, sigCh <-chan os.Signal) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(cfg.StorePathAbs)); err != nil {
		return err
	}

	target := filepath.Base(cfg.StorePathAbs)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			o.Println("---")
			printSlides(o, openStore(cfg), filter, date)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			o.Warn("watch error: " + watchErr.Error())
		case <-sigCh:
			return nil
		}
	}
}
