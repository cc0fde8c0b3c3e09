package store

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/grabworks/shotlog/internal/shot"
)

// Retention. Records dated on or before (today - N days) lose their backing
// image file, their document node, and their index entries. The sweep runs
// inside the same locked cycle as Sync, after new records are appended.

// pruneLocked removes expired records and reports how many went. Callers
// must hold docMu. A retention window of zero or less disables pruning.
func (s *Store) pruneLocked(now time.Time) int {
	if s.retentionDays <= 0 {
		return 0
	}

	cutoff := now.AddDate(0, 0, -s.retentionDays).Format(shot.DateLayout)

	kept := s.doc.Records.Items[:0]
	removed := 0

	for _, r := range s.doc.Records.Items {
		if !expired(r.Date, cutoff) {
			kept = append(kept, r)

			continue
		}

		if r.Path != "" {
			// Best effort: the image may already be gone.
			if err := os.Remove(r.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.log.Warn("delete expired image file", "path", r.Path, "err", err)
			}
		}

		s.idx.remove(recordKey{viewID: r.ID, slide: r.SlideName})

		removed++
	}

	s.doc.Records.Items = kept

	if removed > 0 {
		s.log.Info("pruned expired screenshots", "count", removed, "cutoff", cutoff)
	}

	return removed
}

// expired reports whether a record dated date is on or before the cutoff
// date. Both are canonical YYYY-MM-DD strings, so lexicographic order is
// date order; records with a missing or malformed date are kept.
func expired(date, cutoff string) bool {
	if date == "" {
		return false
	}

	if _, err := time.Parse(shot.DateLayout, date); err != nil {
		return false
	}

	return date <= cutoff
}
