package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidMode, "unknown view mode %q", "tree")
	if err.Code != ErrCodeInvalidMode || err.Message != `unknown view mode "tree"` {
		t.Fatalf("New() = %+v", err)
	}
	if got, want := err.Error(), `INVALID_MODE: unknown view mode "tree"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	diskFull := errors.New("disk full")
	err := Wrap(ErrCodeStorage, diskFull, "save snapshot %s", "mindmap_v1")

	if errors.Unwrap(err) != diskFull || !errors.Is(err, diskFull) {
		t.Error("cause not reachable through the error chain")
	}
	if got, want := err.Error(), "STORAGE: save snapshot mindmap_v1: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if UserMessage(err) != "save snapshot mindmap_v1" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestCodeLookup(t *testing.T) {
	badDoc := New(ErrCodeInvalidJSON, "unexpected end of input")
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", badDoc, ErrCodeInvalidJSON},
		{"behind fmt wrapping", fmt.Errorf("load trip.json: %w", badDoc), ErrCodeInvalidJSON},
		{"outermost coded error", Wrap(ErrCodeStorage, badDoc, "restore"), ErrCodeStorage},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeDetached) {
				t.Error("Is(DETACHED) matched an unrelated error")
			}
		})
	}
}

func TestUserMessageOfPlainError(t *testing.T) {
	if got := UserMessage(errors.New("connection refused")); got != "connection refused" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidJSON, "x"), 400},
		{New(ErrCodeInvalidOutline, "x"), 400},
		{New(ErrCodeInvalidMode, "x"), 400},
		{New(ErrCodeInvalidPath, "x"), 400},
		{New(ErrCodeNotFound, "node n1"), 404},
		{New(ErrCodeDetached, "x"), 409},
		{New(ErrCodeUnsupported, "x"), 501},
		{New(ErrCodeStorage, "x"), 500},
		{fmt.Errorf("wrapped: %w", New(ErrCodeNotFound, "x")), 404},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCodesDistinct(t *testing.T) {
	seen := map[Code]bool{}
	for _, c := range []Code{
		ErrCodeInvalidJSON, ErrCodeInvalidOutline, ErrCodeInvalidFormat,
		ErrCodeInvalidMode, ErrCodeInvalidInput, ErrCodeInvalidPath,
		ErrCodeNotFound, ErrCodeStorage, ErrCodeDetached,
		ErrCodeUnsupported, ErrCodeInternal,
	} {
		if seen[c] {
			t.Errorf("code %s declared twice", c)
		}
		seen[c] = true
	}
}
