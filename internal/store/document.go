package store

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/grabworks/shotlog/internal/shot"
)

// On-disk format. The store is a single XML document whose root carries the
// schema identity stamps; record nodes serialize their children in a fixed
// order so rewrites are byte-stable.

const (
	// SchemaVersion is the current document schema stamp.
	SchemaVersion = "2.0"

	// AppCodename identifies documents written by this tool. A document
	// stamped by anything else is treated as unversioned.
	AppCodename = "shotlog"

	// MaxDocumentBytes is the size ceiling for the backing document. A
	// larger file is considered damaged and is discarded on load.
	MaxDocumentBytes = 5242880
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type document struct {
	XMLName xml.Name   `xml:"screenshots"`
	Version string     `xml:"version,attr"`
	App     string     `xml:"app,attr"`
	Records recordList `xml:"records"`
}

type recordList struct {
	Items []*record `xml:"screenshot"`
}

// record is the wire shape of one screenshot node. Every field is a string;
// typing happens in materialize. The legacy fields only ever appear in
// documents written by older releases and never serialize back out.
type record struct {
	ID          string `xml:"id"`
	Date        string `xml:"date"`
	Time        string `xml:"time"`
	Path        string `xml:"path"`
	Format      string `xml:"format"`
	Component   string `xml:"component"`
	SlideName   string `xml:"slideName"`
	SlideValue  string `xml:"slideValue"`
	WindowTitle string `xml:"windowTitle"`
	ProcessName string `xml:"processName"`
	Note        string `xml:"note"`

	LegacyName   string `xml:"name,omitempty"`
	LegacyScreen string `xml:"screen,omitempty"`
}

// newDocument returns an empty document carrying the current stamps.
func newDocument() *document {
	return &document{
		Version: SchemaVersion,
		App:     AppCodename,
	}
}

// parseDocument decodes a backing document. Unknown elements are ignored;
// missing elements read as empty strings.
func parseDocument(data []byte) (*document, error) {
	doc := &document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decoding store document: %w", err)
	}

	return doc, nil
}

// encode serializes the document with the XML header, indented for the
// occasional human reader.
func (d *document) encode() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding store document: %w", err)
	}

	return append([]byte(xmlHeader), body...), nil
}

// materialize converts a record node into a typed Screenshot. Records read
// from the document are persisted by definition.
func (r *record) materialize() (shot.Screenshot, error) {
	component, err := strconv.Atoi(r.Component)
	if err != nil {
		return shot.Screenshot{}, fmt.Errorf("record %q: bad component %q: %w", r.SlideName, r.Component, err)
	}

	return shot.Screenshot{
		ViewID:      r.ID,
		Date:        r.Date,
		Time:        r.Time,
		Path:        r.Path,
		Format:      r.Format,
		Component:   component,
		SlideName:   r.SlideName,
		SlideValue:  r.SlideValue,
		WindowTitle: r.WindowTitle,
		ProcessName: r.ProcessName,
		Note:        r.Note,
		Persisted:   true,
	}, nil
}

// encodeRecord builds the wire node for a screenshot, children in the fixed
// documented order.
func encodeRecord(sc shot.Screenshot) *record {
	return &record{
		ID:          sc.ViewID,
		Date:        sc.Date,
		Time:        sc.Time,
		Path:        sc.Path,
		Format:      sc.Format,
		Component:   strconv.Itoa(sc.Component),
		SlideName:   sc.SlideName,
		SlideValue:  sc.SlideValue,
		WindowTitle: sc.WindowTitle,
		ProcessName: sc.ProcessName,
		Note:        sc.Note,
	}
}
