// Package store persists screenshot metadata in a single XML document and
// answers the queries the UI needs without ever loading full history
// implicitly.
//
// Concurrency model: one mutex serializes every document load/parse/write
// end-to-end; the in-memory index carries its own lock so reads don't
// contend with unrelated document IO. There is no snapshot guarantee for a
// query racing a rewrite - an accepted trade-off at capture cadence.
//
// Error model: IO and parse failures are logged and collapse to empty or
// partial results. Nothing in this package is fatal to the host process;
// the tool keeps capturing even when history is degraded.
package store

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/grabworks/shotlog/internal/shot"
)

// Options configures a Store. Zero values get sensible defaults.
type Options struct {
	Formats       shot.FormatLookup // defaults to shot.DefaultFormats()
	Screens       shot.ScreenLookup // defaults to an empty shot.ScreenSet
	RetentionDays int               // <=0 disables pruning
	Logger        *slog.Logger      // defaults to slog.Default()
	Now           func() time.Time  // test seam, defaults to time.Now
}

// Store owns the backing document and the in-memory record index.
// All methods are safe for concurrent use by a capture producer and a
// query consumer.
type Store struct {
	path          string
	formats       shot.FormatLookup
	screens       shot.ScreenLookup
	retentionDays int
	log           *slog.Logger
	now           func() time.Time

	// docMu serializes every document operation end-to-end. The index has
	// its own lock; docMu is always the outer lock of the two.
	docMu sync.Mutex
	doc   *document
	idx   *index
}

// Open loads (or creates) the store at path. It never fails: a missing,
// oversized, or corrupt document yields an empty store, with the cause
// logged.
func Open(path string, opts Options) *Store {
	s := &Store{
		path:          path,
		formats:       opts.Formats,
		screens:       opts.Screens,
		retentionDays: opts.RetentionDays,
		log:           opts.Logger,
		now:           opts.Now,
		idx:           newIndex(),
	}

	if s.formats == nil {
		s.formats = shot.DefaultFormats()
	}

	if s.screens == nil {
		s.screens = shot.NewScreenSet()
	}

	if s.log == nil {
		s.log = slog.Default()
	}

	if s.now == nil {
		s.now = time.Now
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	s.loadLocked()

	return s
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// loadLocked opens the backing document, enforcing the size ceiling and
// running migration when the identity stamp is below current.
func (s *Store) loadLocked() {
	s.doc = newDocument()

	info, err := os.Stat(s.path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.writeLocked()

		return
	case err != nil:
		s.log.Error("stat store document", "path", s.path, "err", err)

		return
	}

	if info.Size() > MaxDocumentBytes {
		s.log.Warn("store document exceeds size ceiling, discarding",
			"path", s.path, "size", info.Size(), "ceiling", MaxDocumentBytes)

		if err := os.Remove(s.path); err != nil {
			s.log.Error("remove oversized store document", "path", s.path, "err", err)
		}

		s.writeLocked()

		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Error("read store document", "path", s.path, "err", err)

		return
	}

	doc, err := parseDocument(data)
	if err != nil {
		s.log.Error("parse store document", "path", s.path, "err", err)

		return
	}

	s.doc = doc

	if migrateDocument(s.doc, s.screens, s.log) {
		s.writeLocked()
	}
}

// LoadDate materializes the records for one calendar date into the index.
// Nothing else is pulled into memory. An empty date is a no-op: callers
// must name a concrete date.
func (s *Store) LoadDate(date string) {
	if date == "" {
		return
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	s.loadDateLocked(date)
}

func (s *Store) loadDateLocked(date string) {
	for _, r := range s.doc.Records.Items {
		if r.Date != date {
			continue
		}

		sc, err := r.materialize()
		if err != nil {
			s.log.Warn("skipping malformed record", "date", date, "err", err)

			continue
		}

		if _, ok := s.formats.Find(sc.Format); !ok && sc.Format != "" {
			s.log.Debug("record references unknown format", "format", sc.Format, "slide", sc.SlideName)
		}

		s.idx.add(sc)
	}
}

// Add registers a freshly captured screenshot. The record stays in memory,
// unpersisted, until the next Sync flushes it to the document. Adding an
// equal record (same view id and slide name) is a no-op.
func (s *Store) Add(sc shot.Screenshot) bool {
	sc.Persisted = false

	return s.idx.add(sc)
}

// Sync is the persistence cycle: every unsaved index record is serialized
// into the document in fixed field order, the retention sweep runs, and the
// whole file is rewritten. Each record's Persisted flag flips exactly once,
// after the rewrite succeeded; on failure the appended nodes are rolled
// back so a retry re-serializes them.
func (s *Store) Sync() {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	unsaved := s.idx.unsaved()

	appended := make([]*record, 0, len(unsaved))
	for _, sc := range unsaved {
		node := encodeRecord(*sc)
		appended = append(appended, node)
		s.doc.Records.Items = append(s.doc.Records.Items, node)
	}

	pruned := s.pruneLocked(s.now())

	if len(unsaved) == 0 && pruned == 0 {
		return
	}

	if !s.writeLocked() {
		s.dropNodes(appended)

		return
	}

	s.idx.markPersisted(unsaved)
}

// Prune runs the retention sweep outside a Sync cycle and reports how many
// records were removed.
func (s *Store) Prune() int {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	removed := s.pruneLocked(s.now())
	if removed > 0 {
		s.writeLocked()
	}

	return removed
}

// dropNodes removes the given nodes from the document, used to roll back
// appends whose write-back failed. Callers must hold docMu.
func (s *Store) dropNodes(nodes []*record) {
	if len(nodes) == 0 {
		return
	}

	doomed := make(map[*record]bool, len(nodes))
	for _, n := range nodes {
		doomed[n] = true
	}

	kept := s.doc.Records.Items[:0]

	for _, r := range s.doc.Records.Items {
		if !doomed[r] {
			kept = append(kept, r)
		}
	}

	s.doc.Records.Items = kept
}

// writeLocked rewrites the whole document atomically, under an advisory
// file lock so a second process never sees a half-written store. Callers
// must hold docMu. Reports whether the write landed.
func (s *Store) writeLocked() bool {
	data, err := s.doc.encode()
	if err != nil {
		s.log.Error("encode store document", "err", err)

		return false
	}

	err = withFileLock(s.path, func() error {
		if mkErr := os.MkdirAll(filepath.Dir(s.path), dirPerms); mkErr != nil {
			return mkErr
		}

		return atomic.WriteFile(s.path, bytes.NewReader(data))
	})
	if err != nil {
		s.log.Error("write store document", "path", s.path, "err", err)

		return false
	}

	return true
}
