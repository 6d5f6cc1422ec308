// Package emit adapts the story csv writer to the convert service
package emit

import (
	"io"

	"storyport/internal/adapters/emit/storycsv"
	"storyport/internal/services/convert/domain"
)

// CSV writes rows through storycsv
type CSV struct{}

// NewCSV returns the csv sink
func NewCSV() CSV { return CSV{} }

// Write implements domain.Sink
func (CSV) Write(w io.Writer, rows []domain.Row) error {
	return storycsv.NewWriter(w).WriteAll(rows)
}
