package replay

import (
	"testing"
	"time"

	perr "storyport/internal/platform/errors"
	kit "storyport/internal/platform/testkit"

	"github.com/google/go-cmp/cmp"
)

func named(name, value string) Activity { return Activity{Name: name, HasName: true, NewValue: value} }

func TestReplay_LastWriterWinsRegardlessOfGroupOrder(t *testing.T) {
	early := ActivityGroup{CreatedAt: "2011-01-01T10:00:00Z", Activities: []Activity{named("Status", "New")}}
	late := ActivityGroup{CreatedAt: "2011-01-02T10:00:00Z", Activities: []Activity{named("Status", "Deployed")}}

	for name, groups := range map[string][]ActivityGroup{
		"ascending":  {early, late},
		"descending": {late, early},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Replay(groups)
			if err != nil {
				t.Fatalf("Replay: %v", err)
			}
			if got["Status"] != "Deployed" {
				t.Fatalf("Status = %q, want Deployed", got["Status"])
			}
		})
	}
}

func TestReplay_MixedOffsetsOrderByInstant(t *testing.T) {
	// 23:00 at -04:00 is later than 01:00Z the next day
	groups := []ActivityGroup{
		{CreatedAt: "2011-03-01T23:00:00-04:00", Activities: []Activity{named("Summary", "later")}},
		{CreatedAt: "2011-03-02T01:00:00Z", Activities: []Activity{named("Summary", "earlier")}},
	}
	got, err := Replay(groups)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got["Summary"] != "later" {
		t.Fatalf("Summary = %q, want later", got["Summary"])
	}
}

func TestReplay_ZoneAbbreviationsOnUTCHost(t *testing.T) {
	saved := time.Local
	time.Local = time.UTC
	t.Cleanup(func() { time.Local = saved })

	// 01:15 EST is 06:15Z, after 01:30 EDT at 05:30Z
	groups := []ActivityGroup{
		{CreatedAt: "2010-11-07 01:15:00 EST", Activities: []Activity{named("Status", "later")}},
		{CreatedAt: "2010-11-07 01:30:00 EDT", Activities: []Activity{named("Status", "earlier")}},
	}
	got, err := Replay(groups)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got["Status"] != "later" {
		t.Fatalf("Status = %q, want later", got["Status"])
	}
}

func TestReplay_TiesKeepInputOrder(t *testing.T) {
	at := "2011-01-01T10:00:00Z"
	groups := []ActivityGroup{
		{CreatedAt: at, Activities: []Activity{named("Owner", "first")}},
		{CreatedAt: at, Activities: []Activity{named("Owner", "second")}},
		{CreatedAt: "2010-12-31T00:00:00Z", Activities: []Activity{named("Owner", "oldest")}},
	}
	got, err := Replay(groups)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got["Owner"] != "second" {
		t.Fatalf("Owner = %q, want second", got["Owner"])
	}
}

func TestReplay_DocumentOrderWithinGroup(t *testing.T) {
	groups := []ActivityGroup{{
		CreatedAt: "2011-01-01T10:00:00Z",
		Activities: []Activity{
			named("Summary", "draft"),
			named("Summary", "final"),
		},
	}}
	got, _ := Replay(groups)
	if got["Summary"] != "final" {
		t.Fatalf("Summary = %q, want final", got["Summary"])
	}
}

func TestFold_SentinelAndMissingNamesNeverWrite(t *testing.T) {
	groups := []ActivityGroup{
		{CreatedAt: "2011-01-01T10:00:00Z", Activities: []Activity{
			named("Summary", "kept"),
			{Name: "", HasName: false, NewValue: "ghost"},
		}},
		{CreatedAt: "2011-01-02T10:00:00Z", Activities: []Activity{
			named("null", "x"),
			named("NULL", "y"),
			named("Null attribute", "z"),
			named("   ", "blank"),
			{Name: "Summary", HasName: false, NewValue: "absent name flag"},
		}},
	}
	res, err := Fold(groups)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	want := Reconstructed{"Summary": "kept"}
	if diff := cmp.Diff(want, res.Attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if res.Applied != 1 || res.Skipped != 6 {
		t.Fatalf("counters = applied %d skipped %d, want 1/6", res.Applied, res.Skipped)
	}
}

func TestIsIgnored(t *testing.T) {
	cases := []struct {
		name    string
		present bool
		want    bool
	}{
		{"Status", true, false},
		{"Nullable", true, true},
		{"nULl", true, true},
		{"Annul", true, false},
		{"", true, true},
		{"Status", false, true},
	}
	for _, c := range cases {
		if got := IsIgnored(c.name, c.present); got != c.want {
			t.Fatalf("IsIgnored(%q, %v) = %v, want %v", c.name, c.present, got, c.want)
		}
	}
}

func TestDecodeValue(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`He said &quot;hi&quot;`, `He said ""hi""`},
		{`He said "hi"`, `He said ""hi""`},
		{`Fish &amp; chips &lt;b&gt;`, `Fish & chips <b>`},
		{`caf&eacute; &#169;`, "café ©"},
		{"", ""},
	}
	for _, c := range cases {
		if got := DecodeValue(c.in); got != c.want {
			t.Fatalf("DecodeValue(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReplay_EmptyHistory(t *testing.T) {
	got, err := Replay(nil)
	if err != nil {
		t.Fatalf("Replay(nil): %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Replay(nil) = %#v, want empty non-nil map", got)
	}
	got, _ = Replay([]ActivityGroup{{CreatedAt: "2011-01-01T00:00:00Z"}})
	if len(got) != 0 {
		t.Fatalf("group without activities should not write: %#v", got)
	}
}

func TestReplay_Idempotent(t *testing.T) {
	groups := []ActivityGroup{
		{CreatedAt: "2011-01-03T00:00:00Z", Activities: []Activity{named("Status", "Completed")}},
		{CreatedAt: "2011-01-01T00:00:00Z", Activities: []Activity{named("Summary", "A &amp; B"), named("Status", "New")}},
	}
	before := append([]ActivityGroup(nil), groups...)

	a, errA := Replay(groups)
	b, errB := Replay(groups)
	if errA != nil || errB != nil {
		t.Fatalf("Replay errors: %v %v", errA, errB)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("replay not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, groups); diff != "" {
		t.Fatalf("input reordered (-before +after):\n%s", diff)
	}
}

func TestReplay_BadTimestampFailsWholeIssue(t *testing.T) {
	groups := []ActivityGroup{
		{CreatedAt: "2011-01-01T00:00:00Z", Activities: []Activity{named("Summary", "x")}},
		{CreatedAt: "last tuesday", Activities: []Activity{named("Summary", "y")}},
	}
	got, err := Replay(groups)
	kit.MustCode(t, err, perr.ErrorCodeTimestamp)
	if got != nil {
		t.Fatalf("expected no partial map, got %#v", got)
	}
	if e, _ := perr.As(err); e.Op() != "replay.group" {
		t.Fatalf("op = %q", e.Op())
	}
}

func TestReconstructedGet(t *testing.T) {
	r := Reconstructed{"Status": "New"}
	if v, ok := r.Get("Status"); !ok || v != "New" {
		t.Fatalf("Get(Status) = %q %v", v, ok)
	}
	if _, ok := r.Get("Estimated effort"); ok {
		t.Fatalf("Get on absent key should report false")
	}
}
