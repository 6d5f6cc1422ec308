// Package ingest adapts the export reader to the convert service
package ingest

import (
	"context"
	"io"

	"storyport/internal/adapters/ingest/export"
	"storyport/internal/platform/logger"
	"storyport/internal/services/convert/domain"
)

// Parser decodes a whole export document and extracts issue histories
type Parser struct{}

// NewParser returns the export parser
func NewParser() Parser { return Parser{} }

// Parse implements domain.Parser
func (Parser) Parse(ctx context.Context, r io.Reader) ([]domain.IssueHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := export.Decode(r)
	if err != nil {
		return nil, err
	}
	hs := export.Extract(doc)
	logger.C(ctx).Debug().Int("issues", len(hs)).Msg("export decoded")
	return hs, nil
}
