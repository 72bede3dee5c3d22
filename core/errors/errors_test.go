package errors

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

func TestKindErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantBase error
		wantCode string
	}{
		{
			name:     "unresolved with reason",
			err:      NewUnresolved("Foo 1:1", "unknown book"),
			wantMsg:  `unresolved reference "Foo 1:1": unknown book`,
			wantBase: ErrUnresolvedReference,
			wantCode: "UNRESOLVED_REFERENCE",
		},
		{
			name:     "unresolved without reason",
			err:      &ReferenceError{Input: "xyz"},
			wantMsg:  `unresolved reference "xyz"`,
			wantBase: ErrUnresolvedReference,
			wantCode: "UNRESOLVED_REFERENCE",
		},
		{
			name:     "chapter out of range",
			err:      NewChapterRange("GEN", 51, 50),
			wantMsg:  "GEN: chapter 51 out of range (1-50)",
			wantBase: ErrOutOfRange,
			wantCode: "OUT_OF_RANGE",
		},
		{
			name:     "verse out of range",
			err:      NewVerseRange("GEN", 1, 32, 31),
			wantMsg:  "GEN 1: verse 32 out of range (1-31)",
			wantBase: ErrOutOfRange,
			wantCode: "OUT_OF_RANGE",
		},
		{
			name:     "unknown version",
			err:      NewUnknownVersion("NIV"),
			wantMsg:  `unknown version "NIV"`,
			wantBase: ErrUnknownVersion,
			wantCode: "UNKNOWN_VERSION",
		},
		{
			name:     "invalid query",
			err:      NewInvalidQuery("text", "must not be empty"),
			wantMsg:  "invalid query text: must not be empty",
			wantBase: ErrInvalidQuery,
			wantCode: "INVALID_QUERY",
		},
		{
			name:     "not found",
			err:      NewNotFound("verse", "GEN.1.1"),
			wantMsg:  "verse not found: GEN.1.1",
			wantBase: ErrNotFound,
			wantCode: "NOT_FOUND",
		},
		{
			name:     "validation",
			err:      NewValidation("strength", "must be 1-5"),
			wantMsg:  "validation failed for strength: must be 1-5",
			wantBase: ErrInvalidInput,
			wantCode: "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantBase)
			}
			wrapped := Wrap(tt.err, "context")
			if got := Code(wrapped); got != tt.wantCode {
				t.Errorf("Code() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestQueryErrorCause(t *testing.T) {
	_, cause := regexp.Compile("(")
	err := &QueryError{Field: "text", Message: "bad pattern", Err: cause}
	if !errors.Is(err, ErrInvalidQuery) {
		t.Error("QueryError should match ErrInvalidQuery")
	}
	if !errors.Is(err, cause) {
		t.Error("QueryError should match its cause")
	}
}

func TestAs(t *testing.T) {
	err := Wrapf(NewVerseRange("JHN", 3, 40, 36), "resolve %s", "John 3:40")
	var re *RangeError
	if !As(err, &re) {
		t.Fatal("As() should extract RangeError")
	}
	if re.Max != 36 || re.Value != 40 {
		t.Errorf("RangeError = %+v, want Value 40 Max 36", re)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	if Code(nil) != "" {
		t.Error("Code(nil) should be empty")
	}
	if got := Code(fmt.Errorf("boom")); got != "INTERNAL_ERROR" {
		t.Errorf("Code() = %q, want INTERNAL_ERROR", got)
	}
}

func TestParseErrorLocation(t *testing.T) {
	err := NewParse("csv", "kjv.csv", 12, "expected 4 fields")
	want := "failed to parse csv at kjv.csv:12: expected 4 fields"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}
}
