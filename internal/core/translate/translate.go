// Package translate maps source tracker vocabulary onto the story tracker's
// lifecycle states and point estimates
//
// All mapping data lives in Tables, loaded from YAML. The embedded defaults.yaml
// is used unless a caller supplies its own file
package translate

import (
	"bytes"
	_ "embed"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/validate"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var embedded []byte

// State is a story lifecycle state
type State string

// Lifecycle states understood by the story tracker
const (
	Unscheduled State = "unscheduled"
	Unstarted   State = "unstarted"
	Started     State = "started"
	Finished    State = "finished"
	Delivered   State = "delivered"
	Accepted    State = "accepted"
)

// States lists every lifecycle state in workflow order
var States = []State{Unscheduled, Unstarted, Started, Finished, Delivered, Accepted}

// Valid reports whether s is a known lifecycle state
func (s State) Valid() bool { return slices.Contains(States, s) }

// Bucket maps an inclusive effort range to a point estimate
type Bucket struct {
	Min    int    `yaml:"min" name:"min" validate:"min=0"`
	Max    int    `yaml:"max" name:"max" validate:"gtefield=Min"`
	Points string `yaml:"points" name:"points" validate:"required"`
}

// EstimateRules controls effort bucketing
type EstimateRules struct {
	DefaultEffort int      `yaml:"default_effort" name:"default_effort" validate:"min=0"`
	States        []State  `yaml:"states" name:"states" validate:"dive,lifecycle"`
	Buckets       []Bucket `yaml:"buckets" name:"buckets" validate:"required,dive"`
	Fallback      string   `yaml:"fallback" name:"fallback" validate:"required"`
}

// Document is the YAML shape of a tables file
type Document struct {
	Statuses map[string]State `yaml:"statuses" name:"statuses" validate:"required,dive,keys,required,endkeys,lifecycle"`
	Estimate EstimateRules    `yaml:"estimate" name:"estimate"`
}

func (d Document) clone() Document {
	out := Document{Statuses: maps.Clone(d.Statuses), Estimate: d.Estimate}
	out.Estimate.States = slices.Clone(d.Estimate.States)
	out.Estimate.Buckets = slices.Clone(d.Estimate.Buckets)
	return out
}

// Tables is immutable translation data; build it with Load or Default
type Tables struct {
	doc    Document
	folded map[string]State
}

// Document returns a copy of the loaded data; changing it does not affect t
func (t *Tables) Document() Document { return t.doc.clone() }

var registerOnce sync.Once

func registerLifecycle() {
	registerOnce.Do(func() {
		_ = validate.RegisterValidation("lifecycle", "{0} must be a lifecycle state", func(fl validate.FieldLevel) bool {
			return State(fl.Field().String()).Valid()
		})
	})
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded tables
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic("translate: embedded defaults.yaml invalid: " + err.Error())
		}
		defaultTables = t
	})
	return defaultTables
}

// LoadFile reads tables from a YAML file
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFoundf("tables file %s not found", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open tables %s", path)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load decodes and validates tables from YAML
func Load(r io.Reader) (*Tables, error) {
	registerLifecycle()

	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "decode tables")
	}
	if err := validate.Struct(doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "invalid tables")
	}
	t := Tables{doc: doc}
	for i := 1; i < len(doc.Estimate.Buckets); i++ {
		if doc.Estimate.Buckets[i].Min <= doc.Estimate.Buckets[i-1].Max {
			return nil, perr.Configf("estimate bucket %d overlaps or is out of order", i)
		}
	}

	t.folded = make(map[string]State, len(doc.Statuses))
	c := cases.Fold()
	for label, st := range doc.Statuses {
		t.folded[c.String(strings.TrimSpace(label))] = st
	}
	return &t, nil
}

// Status translates a source label; unknown labels report false
func (t *Tables) Status(label string) (State, bool) {
	l := strings.TrimSpace(label)
	if l == "" {
		return "", false
	}
	if st, ok := t.doc.Statuses[l]; ok {
		return st, true
	}
	st, ok := t.folded[cases.Fold().String(l)]
	return st, ok
}

// Effort parses a raw effort value; absent or unparseable yields the default
// decimal efforts are truncated
func (t *Tables) Effort(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return t.doc.Estimate.DefaultEffort
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return t.doc.Estimate.DefaultEffort
}

// Points buckets an effort value
func (t *Tables) Points(effort int) string {
	for _, b := range t.doc.Estimate.Buckets {
		if effort >= b.Min && effort <= b.Max {
			return b.Points
		}
	}
	return t.doc.Estimate.Fallback
}

// Estimate returns the point estimate for a raw effort value, or "" when the
// state does not carry estimates
func (t *Tables) Estimate(rawEffort string, st State) string {
	if !slices.Contains(t.doc.Estimate.States, st) {
		return ""
	}
	return t.Points(t.Effort(rawEffort))
}

// YAML renders the tables in the same shape Load accepts
func (t *Tables) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "encode tables")
	}
	if err := enc.Close(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "encode tables")
	}
	return buf.Bytes(), nil
}
