package store

import (
	"sync"

	"github.com/grabworks/shotlog/internal/shot"
)

// recordKey addresses one screenshot in the arena. View ids repeat across
// captures of the same screen config, so identity needs the slide name too.
type recordKey struct {
	viewID string
	slide  string
}

// index is the in-memory, deduplicated collection of materialized records
// and their slides: an arena addressed by stable keys plus by-date and
// insertion-order views, instead of mutual object pointers.
//
// The index lock is independent of the store's document lock; when both are
// held, the document lock is the outer one.
type index struct {
	mu     sync.RWMutex
	shots  map[recordKey]*shot.Screenshot
	slides map[string]shot.Slide // slide name registry, one entry per name
	byDate map[string][]recordKey
	order  []recordKey // insertion order, drives first-seen query semantics
}

func newIndex() *index {
	return &index{
		shots:  make(map[recordKey]*shot.Screenshot),
		slides: make(map[string]shot.Slide),
		byDate: make(map[string][]recordKey),
	}
}

// add inserts sc unless an equal record already exists. The slide registry
// picks up sc's slide only when the name is new, so two screenshots sharing
// a slide name share one registry entry, never separate copies.
func (x *index) add(sc shot.Screenshot) bool {
	key := recordKey{viewID: sc.ViewID, slide: sc.SlideName}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.shots[key]; ok {
		return false
	}

	cp := sc
	x.shots[key] = &cp
	x.byDate[sc.Date] = append(x.byDate[sc.Date], key)
	x.order = append(x.order, key)

	if _, ok := x.slides[sc.SlideName]; !ok {
		x.slides[sc.SlideName] = sc.Slide()
	}

	return true
}

// unsaved returns the records not yet written to the document, in
// insertion order.
func (x *index) unsaved() []*shot.Screenshot {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []*shot.Screenshot

	for _, key := range x.order {
		if sc := x.shots[key]; sc != nil && !sc.Persisted {
			out = append(out, sc)
		}
	}

	return out
}

// markPersisted flips the Persisted flag on the given records. The flag
// never reverts; flipping an already-persisted record is a no-op.
func (x *index) markPersisted(shots []*shot.Screenshot) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, sc := range shots {
		sc.Persisted = true
	}
}

// remove drops the record and, when no other record references its slide
// name, the registry entry too.
func (x *index) remove(key recordKey) {
	x.mu.Lock()
	defer x.mu.Unlock()

	sc, ok := x.shots[key]
	if !ok {
		return
	}

	delete(x.shots, key)
	x.byDate[sc.Date] = dropKey(x.byDate[sc.Date], key)

	if len(x.byDate[sc.Date]) == 0 {
		delete(x.byDate, sc.Date)
	}

	x.order = dropKey(x.order, key)

	for _, other := range x.order {
		if other.slide == key.slide {
			return
		}
	}

	delete(x.slides, key.slide)
}

func dropKey(keys []recordKey, key recordKey) []recordKey {
	kept := keys[:0]

	for _, k := range keys {
		if k != key {
			kept = append(kept, k)
		}
	}

	return kept
}

// slidesFor returns the slides of the records materialized for date, in
// insertion order, one per slide name with the first match winning. A nil
// filter accepts every record.
func (x *index) slidesFor(filter *Filter, date string) []shot.Slide {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []shot.Slide

	seen := make(map[string]bool)

	for _, key := range x.byDate[date] {
		sc := x.shots[key]
		if sc == nil || seen[key.slide] {
			continue
		}

		if filter != nil && !filter.matchesShot(*sc) {
			continue
		}

		seen[key.slide] = true

		if slide, ok := x.slides[key.slide]; ok {
			out = append(out, slide)
		} else {
			out = append(out, sc.Slide())
		}
	}

	return out
}

// find scans for the record whose slide name and view id both match and
// returns a copy, or the zero Screenshot when nothing does.
func (x *index) find(slideName, viewID string) shot.Screenshot {
	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, key := range x.order {
		if key.slide != slideName || key.viewID != viewID {
			continue
		}

		if sc := x.shots[key]; sc != nil {
			return *sc
		}
	}

	return shot.Screenshot{}
}
