package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/grabworks/shotlog/internal/shot"
)

// datedCapture builds a record dated days before now, with a real image
// file under dir.
func datedCapture(t *testing.T, dir string, now time.Time, daysAgo int, viewID string) shot.Screenshot {
	t.Helper()

	at := now.AddDate(0, 0, -daysAgo)
	sc := shot.New(at, viewID, filepath.Join(dir, viewID+".png"), "PNG", 1)

	if err := os.WriteFile(sc.Path, []byte("img"), 0o600); err != nil {
		t.Fatalf("writing image: %v", err)
	}

	return sc
}

func TestRetentionSweep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	old := datedCapture(t, dir, now, 40, "v-old")
	mid := datedCapture(t, dir, now, 10, "v-mid")
	fresh := datedCapture(t, dir, now, 1, "v-new")

	s := openTestStore(t, filepath.Join(dir, "screenshots.xml"), Options{
		RetentionDays: 30,
		Now:           fixedClock(now),
	})

	s.Add(old)
	s.Add(mid)
	s.Add(fresh)
	s.Sync()

	// Exactly the 40-day-old record and its image are gone.
	if _, err := os.Stat(old.Path); !os.IsNotExist(err) {
		t.Errorf("old image still exists (err=%v)", err)
	}

	if _, err := os.Stat(mid.Path); err != nil {
		t.Errorf("10-day-old image must survive: %v", err)
	}

	if _, err := os.Stat(fresh.Path); err != nil {
		t.Errorf("1-day-old image must survive: %v", err)
	}

	want := []string{mid.Date, fresh.Date}
	if diff := cmp.Diff(want, s.Dates(nil)); diff != "" {
		t.Errorf("dates after sweep (-want +got):\n%s", diff)
	}

	if got := s.Find(old.SlideName, "v-old"); !got.IsZero() {
		t.Error("pruned record must leave the index")
	}
}

func TestRetentionBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	boundary := datedCapture(t, dir, now, 30, "v-boundary")
	inside := datedCapture(t, dir, now, 29, "v-inside")

	s := openTestStore(t, filepath.Join(dir, "screenshots.xml"), Options{
		RetentionDays: 30,
		Now:           fixedClock(now),
	})

	s.Add(boundary)
	s.Add(inside)
	s.Sync()

	// "On or before today-N": the record dated exactly today-30 goes.
	if got := s.Dates(nil); len(got) != 1 || got[0] != inside.Date {
		t.Errorf("dates = %v, want only %s", got, inside.Date)
	}
}

func TestRetentionDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	ancient := datedCapture(t, dir, now, 400, "v-ancient")

	s := openTestStore(t, filepath.Join(dir, "screenshots.xml"), Options{
		RetentionDays: 0,
		Now:           fixedClock(now),
	})

	s.Add(ancient)
	s.Sync()

	if removed := s.Prune(); removed != 0 {
		t.Errorf("Prune with retention disabled removed %d records", removed)
	}

	if len(s.Dates(nil)) != 1 {
		t.Error("record must survive when retention is disabled")
	}
}

func TestRetentionMissingImageIsFine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	old := shot.New(now.AddDate(0, 0, -40), "v-old", filepath.Join(dir, "gone.png"), "PNG", 1)

	s := openTestStore(t, filepath.Join(dir, "screenshots.xml"), Options{
		RetentionDays: 30,
		Now:           fixedClock(now),
	})

	s.Add(old)
	s.Sync()

	if len(s.Dates(nil)) != 0 {
		t.Error("record must be pruned even when its image is already gone")
	}
}

func TestRetentionSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "screenshots.xml")
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	old := datedCapture(t, dir, now, 40, "v-old")
	fresh := datedCapture(t, dir, now, 1, "v-new")

	// Persist without pruning, then reopen with a retention window.
	seed := openTestStore(t, path, Options{})
	seed.Add(old)
	seed.Add(fresh)
	seed.Sync()

	s := openTestStore(t, path, Options{RetentionDays: 30, Now: fixedClock(now)})

	if removed := s.Prune(); removed != 1 {
		t.Fatalf("Prune removed %d records, want 1", removed)
	}

	// The rewrite must stick: a third open sees only the fresh record.
	reopened := openTestStore(t, path, Options{})
	if got := reopened.Dates(nil); len(got) != 1 || got[0] != fresh.Date {
		t.Errorf("dates after reopen = %v, want only %s", got, fresh.Date)
	}
}
