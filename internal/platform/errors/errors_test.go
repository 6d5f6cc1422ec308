package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeParse, http.StatusUnprocessableEntity},
		{ErrorCodeTimestamp, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeIO, http.StatusInternalServerError},
		{ErrorCodeConfig, http.StatusInternalServerError},
		{ErrorCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{InvalidArgf("x"), ExitUsage},
		{New(ErrorCodeValidation, "x"), ExitUsage},
		{NotFoundf("x"), ExitUsage},
		{Parsef("x"), ExitParse},
		{Timestampf("x"), ExitTimestamp},
		{IOf("x"), ExitFailure},
		{stderrs.New("foreign"), ExitFailure},
	}
	for _, c := range cases {
		if got := Exit(c.err); got != c.want {
			t.Fatalf("Exit(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeTimestamp.String() != "timestamp" || ErrorCodeParse.String() != "parse" {
		t.Fatalf("unexpected code names")
	}
	if ErrorCode(999).String() != "unknown" {
		t.Fatalf("default name should be unknown")
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeParse, "bad xml at line %d", 12)
	if got := e2.Error(); got != "bad xml at line 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "write failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeTimestamp, "group %d", 3)
	if want := "group 3: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeTimestamp {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write mutators
	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "workers")
	e7 := WithOp(e6, "convert")
	if fe, ok := As(e6); !ok || fe.Field() != "workers" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "convert" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src {
		t.Fatalf("WithField should pass foreign errors through")
	}

	// wire
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(e4); wf.Code != ErrorCodeTimestamp || wf.Message != "group 3" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}

	st, w := HTTP(Parsef("nope"))
	if st != http.StatusUnprocessableEntity || w.Code != ErrorCodeParse {
		t.Fatalf("HTTP() = %d %+v", st, w)
	}
	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) = %d", st)
	}
}

func TestSugarAndRoot(t *testing.T) {
	if CodeOf(NotFoundf("x")) != ErrorCodeNotFound ||
		CodeOf(InvalidArgf("x")) != ErrorCodeInvalidArgument ||
		CodeOf(Parsef("x")) != ErrorCodeParse ||
		CodeOf(Timestampf("x")) != ErrorCodeTimestamp ||
		CodeOf(IOf("x")) != ErrorCodeIO ||
		CodeOf(Configf("x")) != ErrorCodeConfig ||
		CodeOf(PanicErrf("x")) != ErrorCodePanic ||
		CodeOf(Unavailablef("x")) != ErrorCodeUnavailable {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeIO, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	src := stderrs.New("root")
	if WrapIf(src, ErrorCodeIO, "io") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
}
