// Package service provides the convert service implementation
package service

import (
	"context"
	"io"
	"strings"
	"time"

	"storyport/internal/core/replay"
	"storyport/internal/core/translate"
	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/logger"
	"storyport/internal/services/convert/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration options for the convert service
type Config struct {
	StoryType string // written to every row; "" -> feature
	Workers   int    // concurrent issue replays; <=0 -> 1
}

// Service implements domain.RunnerPort
type Service struct {
	Parse  domain.Parser
	Sink   domain.Sink
	Tables domain.Translator
	Cfg    Config

	newRunID func() string
	now      func() time.Time
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the convert service
func New(p domain.Parser, sink domain.Sink, tables domain.Translator, cfg Config) *Service {
	if p == nil {
		panic("convert.Service requires a non nil Parser")
	}
	if sink == nil {
		panic("convert.Service requires a non nil Sink")
	}
	if tables == nil {
		tables = translate.Default()
	}
	if strings.TrimSpace(cfg.StoryType) == "" {
		cfg.StoryType = domain.DefaultStoryType
	}
	cfg.Workers = max(cfg.Workers, 1)
	return &Service{
		Parse: p, Sink: sink, Tables: tables, Cfg: cfg,
		newRunID: uuid.NewString,
		now:      time.Now,
	}
}

// Convert runs one export through parse, replay, translate and write
func (s *Service) Convert(ctx context.Context, r io.Reader, w io.Writer) (domain.Stats, error) {
	return s.ConvertAs(ctx, "", r, w)
}

// ConvertAs is Convert with a story type override
// Nothing reaches w unless every issue replays cleanly
func (s *Service) ConvertAs(ctx context.Context, storyType string, r io.Reader, w io.Writer) (domain.Stats, error) {
	start := s.now()
	stats := domain.Stats{RunID: s.newRunID()}
	ctx = logger.WithRun(ctx, stats.RunID)
	log := logger.C(ctx)

	if strings.TrimSpace(storyType) == "" {
		storyType = s.Cfg.StoryType
	}

	hs, err := s.Parse.Parse(ctx, r)
	if err != nil {
		log.Error().Err(err).Msg("convert: parse failed")
		return stats, err
	}
	stats.Issues = len(hs)

	stories, err := s.ReplayAll(ctx, hs)
	if err != nil {
		log.Error().Err(err).Msg("convert: replay failed")
		return stats, err
	}
	for _, st := range stories {
		stats.Activities += st.Applied + st.Skipped
		stats.Skipped += st.Skipped
	}

	rows := s.Rows(stories, storyType)
	if err := s.Sink.Write(w, rows); err != nil {
		log.Error().Err(err).Msg("convert: write failed")
		return stats, err
	}
	stats.Rows = len(rows)
	stats.Elapsed = s.now().Sub(start)

	log.Info().
		Int("issues", stats.Issues).
		Int("activities", stats.Activities).
		Int("skipped", stats.Skipped).
		Dur("elapsed", stats.Elapsed).
		Msg("convert: done")
	return stats, nil
}

// ReplayAll replays every issue on a bounded pool; output keeps input order
// The first failure cancels outstanding work and is returned
func (s *Service) ReplayAll(ctx context.Context, hs []domain.IssueHistory) ([]domain.Story, error) {
	out := make([]domain.Story, len(hs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Cfg.Workers, 1))

	for i := range hs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h := hs[i]
			res, err := replay.Fold(h.Groups)
			if err != nil {
				return perr.WithOp(perr.WithField(err, h.SourceID), "convert.replay")
			}
			if res.Skipped > 0 {
				logger.C(gctx).Debug().Str("issue", h.SourceID).Int("skipped", res.Skipped).Msg("activities skipped")
			}
			out[i] = domain.Story{SourceID: h.SourceID, Attrs: res.Attrs, Applied: res.Applied, Skipped: res.Skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rows maps stories to output rows; ids start at 1 and follow input order
func (s *Service) Rows(stories []domain.Story, storyType string) []domain.Row {
	rows := make([]domain.Row, 0, len(stories))
	id := 0
	for _, st := range stories {
		id++
		rows = append(rows, s.Row(id, st, storyType))
	}
	return rows
}

// Row maps one replayed story
// An unknown or absent status leaves both state and estimate blank
func (s *Service) Row(id int, st domain.Story, storyType string) domain.Row {
	row := domain.Row{
		ID:          id,
		Story:       st.Attrs[domain.AttrSummary],
		Description: st.Attrs[domain.AttrDescription],
		StoryType:   storyType,
	}
	state, ok := s.Tables.Status(st.Attrs[domain.AttrStatus])
	if !ok {
		return row
	}
	row.CurrentState = string(state)
	row.Estimate = s.Tables.Estimate(st.Attrs[domain.AttrEffort], state)
	return row
}
