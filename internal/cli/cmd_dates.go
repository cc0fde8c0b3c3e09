package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
)

func cmdDates(o *IO, cfg shot.Config, args []string) error {
	flagSet := flag.NewFlagSet("dates", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	filterFlags := addFilterFlags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	filter, err := filterFlags.resolve(flagSet)
	if err != nil {
		return err
	}

	s := openStore(cfg)

	for _, date := range s.Dates(filter) {
		o.Println(date)
	}

	return nil
}
