package seedream

import (
	"strings"

	"github.com/tidwall/gjson"
)

// NodeKind classifies a JSON value for the asset URL search.
type NodeKind int

const (
	NodeOther NodeKind = iota
	NodeString
	NodeMapping
	NodeSequence
)

// KindOf returns the kind of a parsed JSON value.
func KindOf(v gjson.Result) NodeKind {
	switch {
	case v.Type == gjson.String:
		return NodeString
	case v.IsObject():
		return NodeMapping
	case v.IsArray():
		return NodeSequence
	default:
		return NodeOther
	}
}

// URLMatcher decides which strings in a response body count as asset URLs.
type URLMatcher struct {
	Schemes []string
	Markers []string
}

// NewURLMatcher accepts http(s) URLs that contain none of markers. An empty
// marker list falls back to "placeholder".
func NewURLMatcher(markers []string) URLMatcher {
	var kept []string
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		kept = []string{"placeholder"}
	}
	return URLMatcher{
		Schemes: []string{"https://", "http://"},
		Markers: kept,
	}
}

// Accept reports whether s is a usable asset URL.
func (m URLMatcher) Accept(s string) bool {
	scheme := false
	for _, prefix := range m.Schemes {
		if strings.HasPrefix(s, prefix) {
			scheme = true
			break
		}
	}
	if !scheme {
		return false
	}
	for _, marker := range m.Markers {
		if strings.Contains(s, marker) {
			return false
		}
	}
	return true
}

// Extract walks body depth-first: mapping values in document order, then
// sequence elements in order. The first accepted string wins.
func (m URLMatcher) Extract(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	return m.find(gjson.ParseBytes(body))
}

func (m URLMatcher) find(node gjson.Result) (string, bool) {
	switch KindOf(node) {
	case NodeString:
		if m.Accept(node.Str) {
			return node.Str, true
		}
	case NodeMapping, NodeSequence:
		var found string
		node.ForEach(func(_, value gjson.Result) bool {
			if url, ok := m.find(value); ok {
				found = url
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}
