package net

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"storyport/internal/platform/logger"
)

func TestWithRequest_SetsAndReads(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-7")
	if got := RequestID(ctx); got != "req-7" {
		t.Fatalf("RequestID = %q, want req-7", got)
	}
}

func TestWithRequest_EmptyIsNoop(t *testing.T) {
	base := context.Background()
	if ctx := WithRequest(base, ""); ctx != base {
		t.Fatal("empty id should return the same context")
	}
	if got := RequestID(base); got != "" {
		t.Fatalf("RequestID on bare ctx = %q", got)
	}
}

func TestWithRequest_ReachesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})
	ctx := WithRequest(context.Background(), "req-9")
	logger.C(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"request_id":"req-9"`) {
		t.Fatalf("log line missing request id: %s", buf.String())
	}
}
