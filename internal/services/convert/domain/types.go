// Package domain holds the data shapes and ports of the convert service
package domain

import (
	"time"

	"storyport/internal/adapters/emit/storycsv"
	"storyport/internal/adapters/ingest/export"
	"storyport/internal/core/replay"
)

// IssueHistory re-exports one extracted issue with its activity groups
type IssueHistory = export.History

// Row re-exports one output line
type Row = storycsv.Row

// Attribute names read from a replayed issue
const (
	AttrSummary     = "Summary"
	AttrDescription = "Description"
	AttrStatus      = "Status"
	AttrEffort      = "Estimated effort"
)

// DefaultStoryType is written to every row unless overridden
const DefaultStoryType = "feature"

// Story is an issue after replay
type Story struct {
	SourceID string
	Attrs    replay.Reconstructed
	Applied  int
	Skipped  int
}

// Stats summarises one conversion run
type Stats struct {
	RunID      string        `json:"run_id"`
	Issues     int           `json:"issues"`
	Activities int           `json:"activities"`
	Skipped    int           `json:"skipped"`
	Rows       int           `json:"rows"`
	Elapsed    time.Duration `json:"elapsed"`
}
