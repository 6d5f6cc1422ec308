package export

import (
	"os"
	"strings"
	"testing"

	"storyport/internal/core/replay"
	perr "storyport/internal/platform/errors"
	kit "storyport/internal/platform/testkit"

	"github.com/google/go-cmp/cmp"
)

func mustDecodeFile(t *testing.T, path string) Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer func() { _ = f.Close() }()
	doc, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func TestExtract_Fixture(t *testing.T) {
	got := Extract(mustDecodeFile(t, "testdata/export.xml"))

	want := []History{
		{
			SourceID: "101",
			Groups: []replay.ActivityGroup{
				{CreatedAt: "2011-02-03T10:00:00-05:00", Activities: []replay.Activity{
					{Name: "Status", HasName: true, NewValue: "Completed"},
				}},
				{CreatedAt: "2011-02-01T09:00:00-05:00", Activities: []replay.Activity{
					{Name: "Summary", HasName: true, NewValue: "Fix &quot;login&quot; &amp; logout"},
					{Name: "Status", HasName: true, NewValue: "New"},
					{Name: "", HasName: false, NewValue: "placeholder"},
					{Name: "", HasName: false, NewValue: "no name at all"},
				}},
			},
		},
		{SourceID: "102"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FixtureReplays(t *testing.T) {
	hs := Extract(mustDecodeFile(t, "testdata/export.xml"))
	attrs, err := replay.Replay(hs[0].Groups)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	want := replay.Reconstructed{
		"Summary": `Fix ""login"" & logout`,
		"Status":  "Completed",
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Fatalf("replayed attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_BareChildrenAndOrder(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
<issues>
  <issue>
    <id>a</id>
    <activity-group>
      <created-at>2011-01-01</created-at>
      <activity><attribute-name>X</attribute-name><new-value>1</new-value></activity>
      <activity><attribute-name>X</attribute-name><new-value>2</new-value></activity>
    </activity-group>
  </issue>
  <issue><id>b</id></issue>
</issues>`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	hs := Extract(doc)
	if len(hs) != 2 || hs[0].SourceID != "a" || hs[1].SourceID != "b" {
		t.Fatalf("issues = %+v", hs)
	}
	acts := hs[0].Groups[0].Activities
	if len(acts) != 2 || acts[0].NewValue != "1" || acts[1].NewValue != "2" {
		t.Fatalf("activities out of document order: %+v", acts)
	}
	if len(hs[1].Groups) != 0 {
		t.Fatalf("issue b should have no groups")
	}
}

func TestDecode_ZeroIssues(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<issues/>`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if hs := Extract(doc); len(hs) != 0 {
		t.Fatalf("expected no issues, got %d", len(hs))
	}
}

func TestDecode_Latin1Prolog(t *testing.T) {
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<issues><issue><id>1</id><activity-group><created-at>2011-01-01</created-at>" +
		"<activity><attribute-name>Summary</attribute-name><new-value>caf\xe9</new-value></activity>" +
		"</activity-group></issue></issues>"
	doc, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	hs := Extract(doc)
	if got := hs[0].Groups[0].Activities[0].NewValue; got != "café" {
		t.Fatalf("NewValue = %q, want café", got)
	}
}

func TestDecode_TrailingMiscAllowed(t *testing.T) {
	doc, err := Decode(strings.NewReader("<issues><issue><id>1</id></issue></issues>\n<!-- end -->\n<?done?>\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(Extract(doc)); got != 1 {
		t.Fatalf("issues = %d, want 1", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"empty":         "",
		"unclosed":      "<issues><issue><id>1</id>",
		"mismatched":    "<issues><issue></issues>",
		"not xml":       "Id,Story\n1,foo\n",
		"second root":   "<issues><issue><id>1</id></issue></issues><issue><id>2</id>",
		"trailing text": "<issues></issues>\nleftover",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			kit.MustCode(t, err, perr.ErrorCodeParse)
		})
	}
}

type recorder struct{ calls []string }

func (r *recorder) EnterIssue(id string) { r.calls = append(r.calls, "enter:"+id) }
func (r *recorder) Group(at string, acts []replay.Activity) {
	r.calls = append(r.calls, "group:"+at)
}
func (r *recorder) LeaveIssue() { r.calls = append(r.calls, "leave") }

func TestWalk_VisitOrder(t *testing.T) {
	doc := Document{
		Wrapped: []Issue{{ID: "1", Wrapped: []Group{{CreatedAt: "t1"}}, Bare: []Group{{CreatedAt: "t2"}}}},
		Bare:    []Issue{{ID: "2"}},
	}
	r := &recorder{}
	Walk(doc, r)
	want := []string{"enter:1", "group:t1", "group:t2", "leave", "enter:2", "leave"}
	if diff := cmp.Diff(want, r.calls); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}
