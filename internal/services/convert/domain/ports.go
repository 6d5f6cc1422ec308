package domain

import (
	"context"
	"io"

	"storyport/internal/core/translate"
)

// RunnerPort is the public port of the convert module
type RunnerPort interface {
	// Convert reads one export from r and writes the story csv to w
	Convert(ctx context.Context, r io.Reader, w io.Writer) (Stats, error)
	// ConvertAs is Convert with a per call story type; "" keeps the configured one
	ConvertAs(ctx context.Context, storyType string, r io.Reader, w io.Writer) (Stats, error)
}

// Parser turns an export document into issue histories in document order
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]IssueHistory, error)
}

// Sink writes the header and rows, then flushes
type Sink interface {
	Write(w io.Writer, rows []Row) error
}

// Translator maps source statuses and efforts into the target vocabulary
type Translator interface {
	Status(label string) (translate.State, bool)
	Estimate(rawEffort string, st translate.State) string
}
