package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
)

var errRetentionDisabled = errors.New("retention is disabled (set retention_days or --retention-days)")

func cmdPrune(o *IO, cfg shot.Config, args []string) error {
	flagSet := flag.NewFlagSet("prune", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if cfg.RetentionDays <= 0 {
		return errRetentionDisabled
	}

	s := openStore(cfg)

	removed := s.Prune()

	o.Printf("pruned %d screenshot(s) older than %d day(s)\n", removed, cfg.RetentionDays)

	return nil
}
