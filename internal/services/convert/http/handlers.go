// Package http provides the convert endpoint
package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/logger"
	phttp "storyport/internal/platform/net/http"
	"storyport/internal/platform/net/middleware"
	"storyport/internal/services/convert/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Runner       domain.RunnerPort
	MaxBodyBytes int64
}

type handlers struct {
	deps Deps
}

// Register mounts POST /convert
func Register(r phttp.Router, d Deps) {
	h := &handlers{deps: d}
	r.Group(func(g phttp.Router) {
		g.Use(middleware.BodyLimit(d.MaxBodyBytes))
		g.Post("/convert", h.convert)
	})
}

const maxStoryType = 64

// convert reads an export from the body and answers with the story csv
// Query: story_type overrides the configured story type
func (h *handlers) convert(w http.ResponseWriter, r *http.Request) {
	storyType := strings.TrimSpace(r.URL.Query().Get("story_type"))
	if len(storyType) > maxStoryType {
		phttp.RespondError(w, r, perr.WithField(perr.InvalidArgf("story_type longer than %d bytes", maxStoryType), "story_type"))
		return
	}

	var out bytes.Buffer
	stats, err := h.deps.Runner.ConvertAs(r.Context(), storyType, r.Body, &out)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			err = perr.Newf(perr.ErrorCodeTooLarge, "request body exceeds %d bytes", mbe.Limit)
		}
		phttp.RespondError(w, r, err)
		return
	}

	logger.C(r.Context()).Debug().Str("run_id", stats.RunID).Int("rows", stats.Rows).Msg("convert served")

	hdr := w.Header()
	hdr.Set("Content-Type", "text/csv; charset=utf-8")
	hdr.Set("Content-Disposition", `attachment; filename="stories.csv"`)
	hdr.Set("Content-Length", strconv.Itoa(out.Len()))
	hdr.Set("X-Run-ID", stats.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = out.WriteTo(w)
}
