// Package storycsv writes story tracker import files
package storycsv

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	perr "storyport/internal/platform/errors"
)

// Header is the fixed column set the story tracker importer expects
var Header = []string{
	"Id", "Story", "Labels", "Iteration", "Iteration Start", "Iteration End",
	"Story Type", "Estimate", "Current State", "Created at", "Accepted at",
	"Deadline", "Requested By", "Owned By", "Description", "URL", "Note",
}

// column positions in Header
const (
	colID           = 0
	colStory        = 1
	colStoryType    = 6
	colEstimate     = 7
	colCurrentState = 8
	colDescription  = 14
)

// Row is one output story; columns not listed here are always blank
type Row struct {
	ID           int
	Story        string
	StoryType    string
	Estimate     string
	CurrentState string
	Description  string
}

// Record renders r in Header order. Values are expected with quotes already
// doubled, so they are collapsed back before csv quoting applies
func (r Row) Record() []string {
	rec := make([]string, len(Header))
	rec[colID] = strconv.Itoa(r.ID)
	rec[colStory] = unescape(r.Story)
	rec[colStoryType] = r.StoryType
	rec[colEstimate] = r.Estimate
	rec[colCurrentState] = r.CurrentState
	rec[colDescription] = unescape(r.Description)
	return rec
}

func unescape(s string) string { return strings.ReplaceAll(s, `""`, `"`) }

// Writer emits the header once, then rows
type Writer struct {
	cw     *csv.Writer
	header bool
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// WriteHeader writes the header line; later calls are no-ops
func (w *Writer) WriteHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	if err := w.cw.Write(Header); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write csv header")
	}
	return nil
}

// Write appends one row, writing the header first if needed
func (w *Writer) Write(r Row) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.cw.Write(r.Record()); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write csv row %d", r.ID)
	}
	return nil
}

// WriteAll writes the header and every row, then flushes
func (w *Writer) WriteAll(rows []Row) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush pushes buffered output to the underlying writer
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "flush csv")
	}
	return nil
}
