package opds

import (
	"errors"
	"fmt"
)

var (
	ErrMissingThumbnail   = errors.New("no thumbnail link")
	ErrEntryNotFound      = errors.New("chapter feed must contain exactly one entry")
	ErrStreamLinkNotFound = errors.New("no OPDS-PSE stream link with an image type")
	ErrInvalidPageCount   = errors.New("invalid OPDS-PSE page count")
	ErrPlaceholderMissing = errors.New("stream href has no {pageNumber} placeholder")
	ErrPlaceholderRepeat  = errors.New("stream href has more than one {pageNumber} placeholder")
)

// ParseError reports a payload that is not a well-formed Atom feed.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feed: %s: %v", e.Reason, e.Err)
	}
	return "parse feed: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// MappingError reports one catalog entry that could not become a domain value.
// Position is the entry's zero-based index in the feed.
type MappingError struct {
	EntryID  string
	Title    string
	Position int
	Err      error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("entry %q (#%d): %v", e.EntryID, e.Position, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
