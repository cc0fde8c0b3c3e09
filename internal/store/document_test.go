package store

import (
	"strings"
	"testing"

	"github.com/grabworks/shotlog/internal/shot"
)

func TestEncodeFixedFieldOrder(t *testing.T) {
	t.Parallel()

	sc := shot.Screenshot{
		ViewID:      "v1",
		Date:        "2024-01-01",
		Time:        "10:00:00.000",
		Path:        "/tmp/a.png",
		Format:      "PNG",
		Component:   2,
		SlideName:   "2024-01-01 10:00:00.000",
		SlideValue:  "10:00:00.000",
		WindowTitle: "Editor",
		ProcessName: "code",
		Note:        "n",
	}

	doc := newDocument()
	doc.Records.Items = append(doc.Records.Items, encodeRecord(sc))

	data, err := doc.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	content := string(data)

	// Child elements appear in the documented fixed order.
	order := []string{
		"<id>", "<date>", "<time>", "<path>", "<format>", "<component>",
		"<slideName>", "<slideValue>", "<windowTitle>", "<processName>", "<note>",
	}

	last := -1

	for _, tag := range order {
		pos := strings.Index(content, tag)
		if pos < 0 {
			t.Fatalf("element %s missing:\n%s", tag, content)
		}

		if pos < last {
			t.Errorf("element %s out of order:\n%s", tag, content)
		}

		last = pos
	}

	// Cleared legacy fields never serialize.
	if strings.Contains(content, "<name>") || strings.Contains(content, "<screen>") {
		t.Errorf("legacy elements in current document:\n%s", content)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	t.Parallel()

	doc := newDocument()
	doc.Records.Items = append(doc.Records.Items,
		encodeRecord(capture("v1", "2024-01-01", "10:00:00.000", "PNG", "")))

	data, err := doc.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := parseDocument(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if parsed.Version != SchemaVersion || parsed.App != AppCodename {
		t.Errorf("stamps = %q/%q", parsed.Version, parsed.App)
	}

	if len(parsed.Records.Items) != 1 {
		t.Fatalf("got %d records, want 1", len(parsed.Records.Items))
	}

	sc, err := parsed.Records.Items[0].materialize()
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if sc.ViewID != "v1" || sc.Component != 1 || !sc.Persisted {
		t.Errorf("materialized = %+v", sc)
	}
}
