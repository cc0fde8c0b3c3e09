// Package main provides shotlog, the metadata store and query tool behind
// the scheduled screen-capture app.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/grabworks/shotlog/internal/cli"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   logLevel(os.Getenv("SHOTLOG_LOG")),
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := cli.Run(os.Stdout, os.Stderr, os.Args, env, sigCh)

	os.Exit(exitCode)
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
