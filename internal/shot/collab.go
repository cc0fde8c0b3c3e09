package shot

import (
	"sync"

	"github.com/google/uuid"
)

// Format describes an image encoder known to the capture routine.
type Format struct {
	Name      string // canonical name, e.g. "PNG"
	Extension string // file extension without the dot
}

// FormatLookup resolves a format name to its descriptor.
// Implemented by the capture routine; an absent result is allowed.
type FormatLookup interface {
	Find(name string) (Format, bool)
}

// ScreenLookup resolves a component selector to the view id of the
// screen/region configuration currently bound to it. Migration uses it to
// re-link records imported from older schemas.
type ScreenLookup interface {
	ViewID(component int) (string, bool)
}

// FormatSet is an immutable FormatLookup over a fixed list of formats.
type FormatSet struct {
	formats []Format
}

// NewFormatSet builds a FormatSet from the given formats.
func NewFormatSet(formats ...Format) *FormatSet {
	return &FormatSet{formats: formats}
}

// Find returns the format with the given name. Comparison is exact and
// case-sensitive, matching the store's query semantics.
func (fs *FormatSet) Find(name string) (Format, bool) {
	for _, f := range fs.formats {
		if f.Name == name {
			return f, true
		}
	}

	return Format{}, false
}

// Names lists the format names in declaration order.
func (fs *FormatSet) Names() []string {
	names := make([]string, len(fs.formats))
	for i, f := range fs.formats {
		names[i] = f.Name
	}

	return names
}

// DefaultFormats covers the encoders the capture routine ships with.
func DefaultFormats() *FormatSet {
	return NewFormatSet(
		Format{Name: "PNG", Extension: "png"},
		Format{Name: "JPEG", Extension: "jpg"},
		Format{Name: "BMP", Extension: "bmp"},
	)
}

// ScreenSet is a ScreenLookup that mints a stable view id per component on
// first use. The real windowing layer supplies its own implementation; this
// one backs the CLI and tests.
type ScreenSet struct {
	mu  sync.Mutex
	ids map[int]string
}

// NewScreenSet returns an empty ScreenSet.
func NewScreenSet() *ScreenSet {
	return &ScreenSet{ids: make(map[int]string)}
}

// Register returns the view id for component, minting one if the component
// has not been seen before.
func (ss *ScreenSet) Register(component int) string {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	id, ok := ss.ids[component]
	if !ok {
		id = uuid.NewString()
		ss.ids[component] = id
	}

	return id
}

// ViewID returns the view id bound to component, if any.
func (ss *ScreenSet) ViewID(component int) (string, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	id, ok := ss.ids[component]

	return id, ok
}
