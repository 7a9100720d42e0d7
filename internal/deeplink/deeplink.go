// Package deeplink parses task URLs of the form
// https://app.asana.com/<workspace index>/<project id>/<task id>.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedLink indicates a URL that does not encode numeric positions.
var ErrMalformedLink = errors.New("malformed link")

// Link is a parsed deep link. Segments beyond the workspace are optional.
type Link struct {
	WorkspaceIndex int    // position in the workspace listing
	ProjectID      string // empty if absent
	TaskID         string // empty if absent
}

// Parse extracts the leading numeric path segments of raw.
// Anything after the task id (e.g. "/f") is ignored.
func Parse(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrMalformedLink, err)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return Link{}, fmt.Errorf("%w: no path in %q", ErrMalformedLink, raw)
	}
	if len(segments) > 3 {
		segments = segments[:3]
	}

	for _, s := range segments {
		if !isAllDigits(s) {
			return Link{}, fmt.Errorf("%w: non-numeric segment %q", ErrMalformedLink, s)
		}
	}

	index, err := strconv.Atoi(segments[0])
	if err != nil {
		return Link{}, fmt.Errorf("%w: workspace index %q", ErrMalformedLink, segments[0])
	}

	link := Link{WorkspaceIndex: index}
	if len(segments) > 1 {
		link.ProjectID = segments[1]
	}
	if len(segments) > 2 {
		link.TaskID = segments[2]
	}
	return link, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
