// Package replay derives an issue's current attribute values from its activity history
//
// An issue's history arrives as activity groups in no particular order. Each group
// carries one created-at timestamp and a document-ordered list of attribute writes.
// Replay sorts groups by instant (stable, so simultaneous groups keep input order),
// then folds every write into a map where the latest write to a key wins
package replay

import (
	"slices"
	"strings"
	"sync"
	"time"

	"storyport/internal/core/timestamp"
	perr "storyport/internal/platform/errors"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
)

// IgnorePrefix marks placeholder attribute names, matched case-insensitively
const IgnorePrefix = "null"

// Activity is one attribute write
// HasName is false when the export carried no attribute name at all
type Activity struct {
	Name     string
	HasName  bool
	NewValue string
}

// ActivityGroup is a timestamped batch of writes for one issue
type ActivityGroup struct {
	CreatedAt  string
	Activities []Activity
}

// Reconstructed maps attribute name to its final decoded value
type Reconstructed map[string]string

// Get returns the value for name and whether it was ever written
func (r Reconstructed) Get(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

// Result carries the reconstructed map plus fold counters
type Result struct {
	Attrs   Reconstructed
	Applied int
	Skipped int
}

// casers are stateful, so concurrent replays each borrow one
var folderPool = sync.Pool{
	New: func() any { return cases.Fold() },
}

func fold(s string) string {
	c := folderPool.Get().(cases.Caser)
	out := c.String(s)
	folderPool.Put(c)
	return out
}

// IsIgnored reports whether an activity name must not touch the map
func IsIgnored(name string, present bool) bool {
	if !present {
		return true
	}
	n := strings.TrimSpace(name)
	if n == "" {
		return true
	}
	return strings.HasPrefix(fold(n), IgnorePrefix)
}

// DecodeValue resolves HTML entities then doubles literal quotes for CSV consumers
func DecodeValue(s string) string {
	return strings.ReplaceAll(html.UnescapeString(s), `"`, `""`)
}

type stamped struct {
	at    time.Time
	group *ActivityGroup
}

// Replay returns the current attribute map for one issue's groups
func Replay(groups []ActivityGroup) (Reconstructed, error) {
	res, err := Fold(groups)
	if err != nil {
		return nil, err
	}
	return res.Attrs, nil
}

// Fold is Replay with counters; any unparsable timestamp fails the whole issue
// The input slice is never reordered
func Fold(groups []ActivityGroup) (Result, error) {
	ordered := make([]stamped, 0, len(groups))
	for i := range groups {
		at, err := timestamp.Parse(groups[i].CreatedAt)
		if err != nil {
			return Result{}, perr.WithOp(err, "replay.group")
		}
		ordered = append(ordered, stamped{at: at, group: &groups[i]})
	}
	slices.SortStableFunc(ordered, func(a, b stamped) int { return a.at.Compare(b.at) })

	res := Result{Attrs: make(Reconstructed)}
	for _, s := range ordered {
		for _, a := range s.group.Activities {
			if IsIgnored(a.Name, a.HasName) {
				res.Skipped++
				continue
			}
			res.Attrs[a.Name] = DecodeValue(a.NewValue)
			res.Applied++
		}
	}
	return res, nil
}
