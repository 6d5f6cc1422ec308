// Package timestamp parses activity group timestamps from tracker exports into
// comparable instants
//
// Exports are Rails to_xml dumps, so created-at is normally RFC3339 with an
// offset. Older dumps and hand-edited files use the space separated forms
// below. Anything else is rejected rather than guessed at
package timestamp

import (
	"strings"
	"time"

	perr "storyport/internal/platform/errors"
)

// Layouts lists accepted numeric-offset and zone-less forms in the order they
// are tried. Zone-less layouts are read as UTC
var Layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006/01/02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	"2006-01-02",
}

// AbbrevLayouts are the forms that end in a zone abbreviation; the
// abbreviation is stripped and resolved through Zones
var AbbrevLayouts = []string{
	"2006-01-02 15:04:05",
	"Mon, 02 Jan 2006 15:04:05",
}

// Zones fixes the offsets of the abbreviations Rails writes. time.Parse would
// resolve these against the host's local zone, so they are never left to it
var Zones = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"Z":   0,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}

// Parse returns the instant for s or a Timestamp error
func Parse(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, perr.Timestampf("empty timestamp")
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	if i := strings.LastIndexByte(v, ' '); i > 0 && isAbbrev(v[i+1:]) {
		return parseAbbrev(v[:i], v[i+1:])
	}
	return time.Time{}, perr.Timestampf("unrecognised timestamp %q", v)
}

func parseAbbrev(clock, abbr string) (time.Time, error) {
	off, ok := Zones[strings.ToUpper(abbr)]
	if !ok {
		return time.Time{}, perr.Timestampf("unknown time zone %q", abbr)
	}
	loc := time.FixedZone(strings.ToUpper(abbr), off)
	for _, layout := range AbbrevLayouts {
		if t, err := time.ParseInLocation(layout, clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, perr.Timestampf("unrecognised timestamp %q", clock+" "+abbr)
}

func isAbbrev(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
