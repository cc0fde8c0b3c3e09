package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/shot"
	"github.com/grabworks/shotlog/internal/store"
)

var errFieldRequired = errors.New("a field is required: format, note, process, or window")

func cmdValues(o *IO, cfg shot.Config, args []string) error {
	flagSet := flag.NewFlagSet("values", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errFieldRequired
	}

	field, ok := store.ParseField(flagSet.Arg(0))
	if !ok {
		return fmt.Errorf("unknown field: %q", flagSet.Arg(0))
	}

	s := openStore(cfg)

	for _, value := range s.DistinctValues(field) {
		o.Println(value)
	}

	return nil
}
