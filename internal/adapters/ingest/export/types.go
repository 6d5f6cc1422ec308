package export

import (
	"encoding/xml"
	"strings"
)

// Document is the decoded export root; the root element name is not checked
type Document struct {
	XMLName xml.Name
	Wrapped []Issue `xml:"issues>issue"`
	Bare    []Issue `xml:"issue"`
}

// Issue is one tracker item with its unordered activity groups
type Issue struct {
	ID      string  `xml:"id"`
	Wrapped []Group `xml:"activity-groups>activity-group"`
	Bare    []Group `xml:"activity-group"`
}

// Group is a timestamped batch of activities
type Group struct {
	CreatedAt string     `xml:"created-at"`
	Wrapped   []Activity `xml:"activities>activity"`
	Bare      []Activity `xml:"activity"`
}

// Activity is one attribute write as it appears in the export
type Activity struct {
	AttributeName *NilText `xml:"attribute-name"`
	NewValue      string   `xml:"new-value"`
}

// NilText is element text that may be marked nil="true"
type NilText struct {
	Nil  bool   `xml:"nil,attr"`
	Text string `xml:",chardata"`
}

// Name returns the trimmed attribute name and whether one was present
func (a Activity) Name() (string, bool) {
	if a.AttributeName == nil || a.AttributeName.Nil {
		return "", false
	}
	n := strings.TrimSpace(a.AttributeName.Text)
	return n, n != ""
}

// Issues returns wrapped then bare issues
func (d Document) Issues() []Issue { return join(d.Wrapped, d.Bare) }

// Groups returns wrapped then bare groups
func (i Issue) Groups() []Group { return join(i.Wrapped, i.Bare) }

// Activities returns wrapped then bare activities
func (g Group) Activities() []Activity { return join(g.Wrapped, g.Bare) }

func join[T any](a, b []T) []T {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
