// Package opds translates OPDS 1.x Atom catalogs and their OPDS-PSE page
// streaming links into the reader's domain values.
//
// Parsing keeps every link attribute with its resolved namespace, so lookups
// never depend on the prefix a server chose to serialize.
package opds

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

const (
	NamespaceAtom = "http://www.w3.org/2005/Atom"
	NamespacePSE  = "http://vaemendis.net/opds-pse/ns"

	RelPSEStream  = "http://vaemendis.net/opds-pse/stream"
	RelSubsection = "subsection"
	RelNext       = "next"
)

// RawFeed is the generic shape of an Atom document, without domain meaning.
type RawFeed struct {
	ID      string
	Title   string
	Links   []RawLink
	Entries []RawEntry
}

type RawEntry struct {
	ID    string
	Title string
	Links []RawLink
}

// RawLink carries the common link attributes plus every attribute as read.
// An empty Rel, Href or Type may mean absent; use Attr to tell.
type RawLink struct {
	Rel   string
	Href  string
	Type  string
	Attrs []xml.Attr
}

// Attr looks up an attribute by namespace URI and local name. Unqualified
// attributes have an empty space.
func (l RawLink) Attr(space, local string) (string, bool) {
	for _, a := range l.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Link returns the first feed-level link with the given rel.
func (f *RawFeed) Link(rel string) (RawLink, bool) {
	for _, l := range f.Links {
		if l.Rel == rel {
			return l, true
		}
	}
	return RawLink{}, false
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID    string     `xml:"id"`
	Title string     `xml:"title"`
	Links []atomLink `xml:"link"`
}

type atomLink struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// Parse decodes an Atom payload. It fails with *ParseError when the payload is
// empty, malformed, or rooted at anything but <feed>. A feed without entries
// is valid.
func Parse(payload []byte) (*RawFeed, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &ParseError{Reason: "empty payload"}
	}

	if kind := gofeed.DetectFeedType(bytes.NewReader(payload)); kind != gofeed.FeedTypeAtom {
		return nil, &ParseError{Reason: fmt.Sprintf("not an Atom feed (detected %s)", feedTypeName(kind))}
	}

	var doc atomFeed
	dec := xml.NewDecoder(bytes.NewReader(payload))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Reason: "malformed XML", Err: err}
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	feed := &RawFeed{
		ID:      strings.TrimSpace(doc.ID),
		Title:   strings.TrimSpace(doc.Title),
		Links:   convertLinks(doc.Links),
		Entries: make([]RawEntry, 0, len(doc.Entries)),
	}
	for _, e := range doc.Entries {
		feed.Entries = append(feed.Entries, RawEntry{
			ID:    strings.TrimSpace(e.ID),
			Title: strings.TrimSpace(e.Title),
			Links: convertLinks(e.Links),
		})
	}

	return feed, nil
}

// expectEOF reads what follows the root element. Only comments, processing
// instructions and whitespace may trail it.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Reason: "malformed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &ParseError{Reason: fmt.Sprintf("element <%s> after the root", t.Name.Local)}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return &ParseError{Reason: "text after the root"}
			}
		}
	}
}

func convertLinks(in []atomLink) []RawLink {
	out := make([]RawLink, 0, len(in))
	for _, l := range in {
		link := RawLink{Attrs: make([]xml.Attr, 0, len(l.Attrs))}
		for _, a := range l.Attrs {
			if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
				continue
			}
			link.Attrs = append(link.Attrs, a)
		}
		link.Rel, _ = link.Attr("", "rel")
		link.Href, _ = link.Attr("", "href")
		link.Type, _ = link.Attr("", "type")
		out = append(out, link)
	}
	return out
}

func feedTypeName(t gofeed.FeedType) string {
	switch t {
	case gofeed.FeedTypeRSS:
		return "RSS"
	case gofeed.FeedTypeJSON:
		return "JSON"
	case gofeed.FeedTypeAtom:
		return "Atom"
	default:
		return "unknown"
	}
}
