package models

import (
	"encoding/json"
	"strconv"
)

// Bookmark represents a bookmark entry extracted from an export file
type Bookmark struct {
	Title  string
	URL    string
	Domain string
	Folder []string // enclosing folder names, outermost first
}

// DuplicateType tags the variant of a DuplicateGroup
type DuplicateType string

const (
	DuplicateURL   DuplicateType = "duplicate_url"
	DuplicateTitle DuplicateType = "duplicate_title"
)

// DuplicateGroup is either a set of bookmarks sharing one URL or a set of
// bookmarks sharing a normalized title with differing URLs.
type DuplicateGroup struct {
	Type   DuplicateType
	URL    string   // duplicate_url only
	Title  string   // duplicate_title only
	Titles []string // duplicate_url only
	URLs   []string // duplicate_title only
	Count  int
}

type duplicateURLJSON struct {
	Type   DuplicateType `json:"type"`
	URL    string        `json:"url"`
	Count  int           `json:"count"`
	Titles []string      `json:"titles"`
}

type duplicateTitleJSON struct {
	Type  DuplicateType `json:"type"`
	Title string        `json:"title"`
	URLs  []string      `json:"urls"`
	Count int           `json:"count"`
}

// MarshalJSON emits only the fields of the active variant
func (g DuplicateGroup) MarshalJSON() ([]byte, error) {
	if g.Type == DuplicateURL {
		return json.Marshal(duplicateURLJSON{Type: g.Type, URL: g.URL, Count: g.Count, Titles: g.Titles})
	}
	return json.Marshal(duplicateTitleJSON{Type: g.Type, Title: g.Title, URLs: g.URLs, Count: g.Count})
}

// ProbeStatus is an HTTP status code, or the transport error marker when Err is set
type ProbeStatus struct {
	Code int
	Err  bool
}

// StatusError marks a probe that failed before any HTTP status was received
var StatusError = ProbeStatus{Err: true}

// HTTPStatus wraps a received status code
func HTTPStatus(code int) ProbeStatus {
	return ProbeStatus{Code: code}
}

// String returns "ERROR" or the decimal status code
func (s ProbeStatus) String() string {
	if s.Err {
		return "ERROR"
	}
	return strconv.Itoa(s.Code)
}

// MarshalJSON encodes the status as a number, or as the string "ERROR"
func (s ProbeStatus) MarshalJSON() ([]byte, error) {
	if s.Err {
		return []byte(`"ERROR"`), nil
	}
	return []byte(strconv.Itoa(s.Code)), nil
}

// Working reports whether the status is a success or redirect
func (s ProbeStatus) Working() bool {
	return !s.Err && s.Code >= 200 && s.Code < 400
}

// ProbeResult is the outcome of a single reachability check
type ProbeResult struct {
	Title  string      `json:"title"`
	URL    string      `json:"url"`
	Status ProbeStatus `json:"status_code"`
	Domain string      `json:"domain"`
	Error  string      `json:"error,omitempty"`
	Note   string      `json:"note,omitempty"`
}

// IsDead reports whether the result belongs to the dead links
func (r ProbeResult) IsDead() bool {
	return !r.Status.Working()
}
