package cli

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/grabworks/shotlog/internal/store"
)

var errFiltersExclusive = errors.New("at most one of --format, --note, --process, --window")

// filterFlagValues holds the four filter flags a query command accepts.
type filterFlagValues struct {
	format  string
	note    string
	process string
	window  string
}

// addFilterFlags registers the filter flags on flagSet.
func addFilterFlags(flagSet *flag.FlagSet) *filterFlagValues {
	v := &filterFlagValues{}

	flagSet.StringVar(&v.format, "format", "", "Filter by image format name")
	flagSet.StringVar(&v.note, "note", "", "Filter by annotation text")
	flagSet.StringVar(&v.process, "process", "", "Filter by process name")
	flagSet.StringVar(&v.window, "window", "", "Filter by window title")

	return v
}

// resolve turns the flags into a single equality filter, or nil when none
// was given. Filters are exclusive: the store applies one predicate.
func (v *filterFlagValues) resolve(flagSet *flag.FlagSet) (*store.Filter, error) {
	var filter *store.Filter

	set := func(field store.Field, value string) error {
		if filter != nil {
			return errFiltersExclusive
		}

		filter = &store.Filter{Field: field, Value: value}

		return nil
	}

	if flagSet.Changed("format") {
		if err := set(store.FieldFormat, v.format); err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("note") {
		if err := set(store.FieldNote, v.note); err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("process") {
		if err := set(store.FieldProcess, v.process); err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("window") {
		if err := set(store.FieldWindow, v.window); err != nil {
			return nil, err
		}
	}

	return filter, nil
}
