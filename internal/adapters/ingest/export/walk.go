package export

import (
	"strings"

	"storyport/internal/core/replay"
)

// Visitor receives the tree in document order
type Visitor interface {
	EnterIssue(id string)
	Group(createdAt string, activities []replay.Activity)
	LeaveIssue()
}

// Walk visits every issue, then each of its groups with activities converted for replay
func Walk(doc Document, v Visitor) {
	for _, is := range doc.Issues() {
		v.EnterIssue(strings.TrimSpace(is.ID))
		for _, g := range is.Groups() {
			acts := g.Activities()
			out := make([]replay.Activity, 0, len(acts))
			for _, a := range acts {
				name, ok := a.Name()
				out = append(out, replay.Activity{Name: name, HasName: ok, NewValue: a.NewValue})
			}
			v.Group(strings.TrimSpace(g.CreatedAt), out)
		}
		v.LeaveIssue()
	}
}

// History is one issue's id and its groups, ready for replay
type History struct {
	SourceID string
	Groups   []replay.ActivityGroup
}

// Extract returns one History per issue in document order
func Extract(doc Document) []History {
	c := &collector{}
	Walk(doc, c)
	return c.out
}

type collector struct {
	out []History
	cur *History
}

func (c *collector) EnterIssue(id string) { c.cur = &History{SourceID: id} }

func (c *collector) Group(createdAt string, acts []replay.Activity) {
	c.cur.Groups = append(c.cur.Groups, replay.ActivityGroup{CreatedAt: createdAt, Activities: acts})
}

func (c *collector) LeaveIssue() {
	c.out = append(c.out, *c.cur)
	c.cur = nil
}
