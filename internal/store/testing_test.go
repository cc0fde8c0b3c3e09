package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grabworks/shotlog/internal/shot"
)

// quietLogger keeps expected failures out of test output.
func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testStorePath returns a store path inside a fresh temp dir.
func testStorePath(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "screenshots.xml")
}

// openTestStore opens a store with a quiet logger and any extra options
// applied on top.
func openTestStore(t *testing.T, path string, opts Options) *Store {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}

	return Open(path, opts)
}

// fixedClock returns a Now func pinned to at.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// writeRawDocument drops raw bytes at path, creating parent dirs.
func writeRawDocument(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
}

// capture builds a screenshot dated date with the given slide suffix.
func capture(viewID, date, tod, format, slideSuffix string) shot.Screenshot {
	name := date + " " + tod
	if slideSuffix != "" {
		name = slideSuffix
	}

	return shot.Screenshot{
		ViewID:     viewID,
		Date:       date,
		Time:       tod,
		Path:       "/tmp/" + viewID + ".png",
		Format:     format,
		Component:  1,
		SlideName:  name,
		SlideValue: tod,
	}
}
