// Package shot defines the screenshot metadata model shared by the store,
// the query surface, and the CLI.
package shot

import (
	"time"
)

// CaptureKind classifies how a screenshot was produced.
type CaptureKind int

// Capture kinds, derived from the component selector.
const (
	KindRegion CaptureKind = iota
	KindActiveWindow
	KindScreen
)

// String returns the display name of the capture kind.
func (k CaptureKind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindActiveWindow:
		return "active-window"
	case KindScreen:
		return "screen"
	default:
		return "unknown"
	}
}

// Component sentinel values. Components above zero address numbered screens.
const (
	ComponentRegion       = -1
	ComponentActiveWindow = 0
)

// Canonical date and time layouts used everywhere in the store.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05.000"
)

// Screenshot holds the metadata recorded for one capture. The image bytes
// live at Path; this subsystem never reads them.
type Screenshot struct {
	ViewID      string // opaque id of the screen/region config that produced the capture
	Date        string // calendar date, YYYY-MM-DD
	Time        string // time of day, HH:MM:SS.mmm
	Path        string // filesystem path of the encoded image
	Format      string // image format name, resolved via FormatLookup
	Component   int    // -1 region, 0 active window, >0 numbered screen
	SlideName   string // key into the slide registry
	SlideValue  string // display text of the owned slide
	WindowTitle string
	ProcessName string
	Note        string // free-text annotation
	Persisted   bool   // true once the record reached the backing document
}

// Kind derives the capture kind from the component selector.
func (s Screenshot) Kind() CaptureKind {
	switch {
	case s.Component < 0:
		return KindRegion
	case s.Component == 0:
		return KindActiveWindow
	default:
		return KindScreen
	}
}

// IsZero reports whether s is the empty sentinel lookups return on a miss.
func (s Screenshot) IsZero() bool {
	return s.ViewID == "" && s.SlideName == ""
}

// Slide returns the slide entity this screenshot owns. Registration into
// the slide registry dedups by name; see the store index.
func (s Screenshot) Slide() Slide {
	return Slide{Name: s.SlideName, Value: s.SlideValue, Date: s.Date}
}

// Slide is the user-editable name/value pair that groups captures for
// display. Name is the grouping key; Value is what the UI shows.
type Slide struct {
	Name  string
	Value string
	Date  string
}

// New builds the metadata for a capture taken at now. The slide name
// follows the current textual convention: "<date> <time>", unique per
// capture instant within a store. Window title, process name, and note are
// left for the caller to fill in.
func New(now time.Time, viewID, path, format string, component int) Screenshot {
	date := now.Format(DateLayout)
	tod := now.Format(TimeLayout)

	return Screenshot{
		ViewID:     viewID,
		Date:       date,
		Time:       tod,
		Path:       path,
		Format:     format,
		Component:  component,
		SlideName:  date + " " + tod,
		SlideValue: tod,
	}
}
