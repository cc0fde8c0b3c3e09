package store

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/grabworks/shotlog/internal/shot"
)

// Schema migration. Older releases stamped no identity on the document, or
// a version below current, and shaped record nodes differently. Migration
// is an ordered list of pure record rewrites selected by comparing the
// stamped version against each step's threshold. Every step detects
// already-current nodes and no-ops, so re-running is free.

type migration struct {
	below string // applies when the stamped version sorts before this
	name  string
	apply func(r *record, screens shot.ScreenLookup) bool
}

var migrations = []migration{
	{below: "1.1", name: "timestamp-encoded names", apply: migrateEncodedName},
	{below: "2.0", name: "screen numbering", apply: migrateScreenNumbering},
}

// legacyActiveWindowScreen is the sentinel older releases stored in the
// screen field for active-window captures.
const legacyActiveWindowScreen = 5

// importedWindowTitle marks records migrated from a schema that never
// recorded window titles.
const importedWindowTitle = "Imported from an earlier shotlog release"

// legacyNamePattern is the fixed grammar the oldest schema encoded capture
// timestamps with: YYYY-MM-DD followed by HH-MM-SS-mmm.
var legacyNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ _](\d{2})-(\d{2})-(\d{2})-(\d{3})$`)

// migrateDocument rewrites every record node stamped below the current
// schema and restamps the document. Reports whether anything changed.
func migrateDocument(doc *document, screens shot.ScreenLookup, log *slog.Logger) bool {
	stamped := doc.Version
	if stamped == "" || doc.App != AppCodename {
		// Unstamped or foreign-stamped documents predate versioning.
		stamped = "1.0"
	}

	changed := false

	for _, m := range migrations {
		if !versionBefore(stamped, m.below) {
			continue
		}

		rewritten := 0

		for _, r := range doc.Records.Items {
			if m.apply(r, screens) {
				rewritten++
			}
		}

		if rewritten > 0 {
			log.Info("migrated store records", "step", m.name, "records", rewritten,
				"from", stamped, "to", SchemaVersion)

			changed = true
		}
	}

	if doc.Version != SchemaVersion || doc.App != AppCodename {
		doc.Version = SchemaVersion
		doc.App = AppCodename
		changed = true
	}

	return changed
}

// migrateEncodedName synthesizes the date, time, and slide fields the
// oldest schema never had, by extracting the timestamp embedded in the
// legacy name. Records whose legacy name doesn't follow the grammar keep
// the raw name as their slide key so they stay addressable; their date and
// time stay empty.
func migrateEncodedName(r *record, _ shot.ScreenLookup) bool {
	if r.Date != "" && r.SlideName != "" {
		return false // already current
	}

	name := r.LegacyName
	if name == "" {
		name = r.SlideName
	}

	if name == "" {
		return false
	}

	if m := legacyNamePattern.FindStringSubmatch(name); m != nil {
		r.Date = m[1]
		r.Time = m[2] + ":" + m[3] + ":" + m[4] + "." + m[5]
		r.SlideName = r.Date + " " + r.Time
		r.SlideValue = r.Time
	} else {
		r.SlideName = name
		r.SlideValue = name
	}

	if r.WindowTitle == "" {
		r.WindowTitle = importedWindowTitle
	}

	r.LegacyName = ""

	return true
}

// migrateScreenNumbering maps the legacy screen field onto the component
// scheme (the sentinel 5 meant active window; every other number carries
// over) and re-resolves the view id for the mapped component so migrated
// records stay addressable under the current view model. An absent screen
// field falls back to the active-window default.
func migrateScreenNumbering(r *record, screens shot.ScreenLookup) bool {
	if r.Component != "" {
		return false // already current
	}

	screen := legacyActiveWindowScreen

	if r.LegacyScreen != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(r.LegacyScreen)); err == nil {
			screen = n
		}
	}

	component := screen
	if screen == legacyActiveWindowScreen {
		component = shot.ComponentActiveWindow
	}

	r.Component = strconv.Itoa(component)

	if id, ok := screens.ViewID(component); ok {
		r.ID = id
	}

	r.LegacyScreen = ""

	return true
}

// versionBefore reports whether version a sorts before b, comparing dotted
// numeric segments. Missing segments count as zero; non-numeric segments
// count as zero too, which makes arbitrary garbage sort before everything.
func versionBefore(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0

		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}

		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}

		if av != bv {
			return av < bv
		}
	}

	return false
}
