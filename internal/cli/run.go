// Package cli implements the shotlog command line: recording captures into
// the store and querying it the way the UI would.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grabworks/shotlog/internal/shot"
	"github.com/grabworks/shotlog/internal/store"
)

const helpFlag = "--help"

// Run is the main entry point. Returns the exit code.
func Run(out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < 2 {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	cfg, err := shot.LoadConfig(shot.LoadConfigInput{
		WorkDirOverride:   flags.workDir,
		ConfigPath:        flags.configPath,
		StorePathOverride: flags.storePath,
		RetentionOverride: flags.retentionDays,
		HasRetentionFlag:  flags.hasRetention,
		Env:               env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ioCtx := NewIO(out, errOut)

	var cmdErr error

	switch cmd {
	case "add":
		cmdErr = cmdAdd(ioCtx, cfg, cmdArgs)
	case "dates":
		cmdErr = cmdDates(ioCtx, cfg, cmdArgs)
	case "slides":
		cmdErr = cmdSlides(ioCtx, cfg, cmdArgs, sigCh)
	case "values":
		cmdErr = cmdValues(ioCtx, cfg, cmdArgs)
	case "find":
		cmdErr = cmdFind(ioCtx, cfg, cmdArgs)
	case "prune":
		cmdErr = cmdPrune(ioCtx, cfg, cmdArgs)
	case "print-config":
		cmdErr = cmdPrintConfig(ioCtx, cfg)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return ioCtx.Finish()
}

type globalFlags struct {
	workDir       string
	configPath    string
	storePath     string
	retentionDays int
	hasRetention  bool
	remaining     []string
}

var errFlagRequiresArg = errors.New("flag requires an argument")

// parseGlobalFlags peels the global flags off the front of args; everything
// from the first non-flag token on belongs to the command.
func parseGlobalFlags(args []string) (globalFlags, error) {
	flags := globalFlags{}

	i := 0

	for i < len(args) {
		arg := args[i]

		takeValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
			}

			i += 2

			return args[i-1], nil
		}

		switch arg {
		case "-C", "--cwd":
			v, err := takeValue()
			if err != nil {
				return flags, err
			}

			flags.workDir = v
		case "-c", "--config":
			v, err := takeValue()
			if err != nil {
				return flags, err
			}

			flags.configPath = v
		case "--store":
			v, err := takeValue()
			if err != nil {
				return flags, err
			}

			flags.storePath = v
		case "--retention-days":
			v, err := takeValue()
			if err != nil {
				return flags, err
			}

			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				return flags, fmt.Errorf("invalid --retention-days: %q", v)
			}

			flags.retentionDays = n
			flags.hasRetention = true
		default:
			flags.remaining = args[i:]

			return flags, nil
		}
	}

	return flags, nil
}

// openStore opens the configured store. Open never fails; degraded loads
// surface through the log.
func openStore(cfg shot.Config) *store.Store {
	return store.Open(cfg.StorePathAbs, store.Options{
		RetentionDays: cfg.RetentionDays,
	})
}

func printUsage(w io.Writer) {
	fprintln(w, "Usage: shotlog [global flags] <command> [flags]")
	fprintln(w, "")
	fprintln(w, "Commands:")
	fprintln(w, "  add                   Record a capture in the store")
	fprintln(w, "  dates [filter]        List the dates that have screenshots")
	fprintln(w, "  slides <date>         List the slides captured on a date")
	fprintln(w, "  values <field>        List distinct values of a field")
	fprintln(w, "  find <slide> <view>   Look up one screenshot")
	fprintln(w, "  prune                 Remove screenshots past the retention window")
	fprintln(w, "  print-config          Show the effective configuration")
	fprintln(w, "")
	fprintln(w, "Global flags:")
	fprintln(w, "  -C, --cwd <dir>           Run as if started in <dir>")
	fprintln(w, "  -c, --config <file>       Use an explicit config file")
	fprintln(w, "      --store <file>        Override the store document path")
	fprintln(w, "      --retention-days <n>  Override the retention window")
	fprintln(w, "")
	fprintln(w, "Filter flags (at most one): --format, --note, --process, --window")
}
