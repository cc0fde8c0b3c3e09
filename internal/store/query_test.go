package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grabworks/shotlog/internal/shot"
)

// threeFormats seeds a persisted store with three records on 2024-01-01
// carrying formats PNG, JPEG, PNG.
func threeFormats(t *testing.T) *Store {
	t.Helper()

	s := openTestStore(t, testStorePath(t), Options{})

	s.Add(capture("v1", "2024-01-01", "10:00:00.000", "PNG", ""))
	s.Add(capture("v2", "2024-01-01", "11:00:00.000", "JPEG", ""))
	s.Add(capture("v3", "2024-01-01", "12:00:00.000", "PNG", ""))
	s.Sync()

	return s
}

func TestDistinctValuesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	s := threeFormats(t)

	got := s.DistinctValues(FieldFormat)
	if diff := cmp.Diff([]string{"PNG", "JPEG"}, got); diff != "" {
		t.Errorf("DistinctValues(format) mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctValuesSkipsEmpty(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, testStorePath(t), Options{})

	withNote := capture("v1", "2024-01-01", "10:00:00.000", "PNG", "")
	withNote.Note = "review"
	noNote := capture("v2", "2024-01-01", "11:00:00.000", "PNG", "")

	s.Add(withNote)
	s.Add(noNote)
	s.Sync()

	got := s.DistinctValues(FieldNote)
	if diff := cmp.Diff([]string{"review"}, got); diff != "" {
		t.Errorf("empty values must never appear (-want +got):\n%s", diff)
	}
}

func TestDistinctValuesCaseSensitive(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, testStorePath(t), Options{})

	lower := capture("v1", "2024-01-01", "10:00:00.000", "PNG", "")
	lower.ProcessName = "firefox"
	upper := capture("v2", "2024-01-01", "11:00:00.000", "PNG", "")
	upper.ProcessName = "Firefox"

	s.Add(lower)
	s.Add(upper)
	s.Sync()

	got := s.DistinctValues(FieldProcess)
	if diff := cmp.Diff([]string{"firefox", "Firefox"}, got); diff != "" {
		t.Errorf("comparison must be case-sensitive (-want +got):\n%s", diff)
	}
}

func TestDatesWithAndWithoutFilter(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, testStorePath(t), Options{})

	s.Add(capture("v1", "2024-01-01", "10:00:00.000", "PNG", ""))
	s.Add(capture("v2", "2024-01-02", "10:00:00.000", "JPEG", ""))
	s.Add(capture("v3", "2024-01-03", "10:00:00.000", "PNG", ""))
	s.Sync()

	all := s.Dates(nil)
	if diff := cmp.Diff([]string{"2024-01-01", "2024-01-02", "2024-01-03"}, all); diff != "" {
		t.Errorf("Dates(nil) mismatch (-want +got):\n%s", diff)
	}

	jpeg := s.Dates(&Filter{Field: FieldFormat, Value: "JPEG"})
	if diff := cmp.Diff([]string{"2024-01-02"}, jpeg); diff != "" {
		t.Errorf("Dates(JPEG) mismatch (-want +got):\n%s", diff)
	}
}

func TestSlidesFilterGroupsFirstWins(t *testing.T) {
	t.Parallel()

	s := threeFormats(t)

	got := s.Slides(&Filter{Field: FieldFormat, Value: "PNG"}, "2024-01-01")

	want := []shot.Slide{
		{Name: "2024-01-01 10:00:00.000", Value: "10:00:00.000", Date: "2024-01-01"},
		{Name: "2024-01-01 12:00:00.000", Value: "12:00:00.000", Date: "2024-01-01"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Slides(PNG) mismatch (-want +got):\n%s", diff)
	}
}

func TestSlidesSharedNameFirstWins(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, testStorePath(t), Options{})

	first := capture("v1", "2024-01-01", "10:00:00.000", "PNG", "shared")
	first.SlideValue = "first"
	second := capture("v2", "2024-01-01", "11:00:00.000", "PNG", "shared")
	second.SlideValue = "second"

	s.Add(first)
	s.Add(second)
	s.Sync()

	got := s.Slides(nil, "2024-01-01")
	if len(got) != 1 {
		t.Fatalf("got %d slides, want 1", len(got))
	}

	if got[0].Value != "first" {
		t.Errorf("slide value = %q, want the first match", got[0].Value)
	}
}

func TestSlidesRequiresDate(t *testing.T) {
	t.Parallel()

	s := threeFormats(t)

	if got := s.Slides(nil, ""); got != nil {
		t.Errorf("Slides with empty date = %v, want nil", got)
	}
}

func TestSlidesMaterializesLazily(t *testing.T) {
	t.Parallel()

	path := testStorePath(t)

	seed := openTestStore(t, path, Options{})
	seed.Add(capture("v1", "2024-01-01", "10:00:00.000", "PNG", ""))
	seed.Add(capture("v2", "2024-01-02", "11:00:00.000", "PNG", ""))
	seed.Sync()

	// A fresh store has nothing materialized until a date is asked for.
	s := openTestStore(t, path, Options{})

	if got := s.Find("2024-01-01 10:00:00.000", "v1"); !got.IsZero() {
		t.Error("nothing should be materialized before Slides/LoadDate")
	}

	slides := s.Slides(nil, "2024-01-01")
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}

	// Only the asked-for date got materialized.
	if got := s.Find("2024-01-01 10:00:00.000", "v1"); got.IsZero() {
		t.Error("2024-01-01 should be materialized now")
	}

	if got := s.Find("2024-01-02 11:00:00.000", "v2"); !got.IsZero() {
		t.Error("2024-01-02 was never requested and must stay cold")
	}
}

func TestFindSentinelContract(t *testing.T) {
	t.Parallel()

	s := threeFormats(t)

	got := s.Find("2024-01-01 10:00:00.000", "wrong-view")
	if !got.IsZero() {
		t.Errorf("miss must return the zero sentinel, got %+v", got)
	}

	hit := s.Find("2024-01-01 10:00:00.000", "v1")
	if hit.IsZero() {
		t.Fatal("expected a hit")
	}

	if hit.Format != "PNG" || !hit.Persisted {
		t.Errorf("hit = %+v", hit)
	}
}

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Field
		ok   bool
	}{
		{"format", FieldFormat, true},
		{"note", FieldNote, true},
		{"process", FieldProcess, true},
		{"window", FieldWindow, true},
		{"pixels", 0, false},
		{"", 0, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseField(testCase.name)
			if ok != testCase.ok || (ok && got != testCase.want) {
				t.Errorf("ParseField(%q) = %v, %v", testCase.name, got, ok)
			}
		})
	}
}
