package extract

import (
	"context"
	"errors"
	"unicode/utf8"
)

// Outcome tells how an extraction ended.
type Outcome int

const (
	// Extracted means that a name and a phone number were found.
	Extracted Outcome = iota
	// NotFound means that the text did not contain a name and a phone number.
	NotFound
	// Failed means that the extraction could not be carried out.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Extracted:
		return "extracted"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the result of an extraction. Name and Phone are only set for Extracted, Err is only
// set for Failed.
type Result struct {
	Outcome Outcome
	Name    string
	Phone   string
	Err     error
}

// Extractor finds a contact in free text.
type Extractor interface {
	Extract(ctx context.Context, text string) Result
}

// ErrNotConfigured is the failure of Disabled.
var ErrNotConfigured = errors.New("no extraction service configured")

// Disabled is the extractor used when no extraction service is configured. Every extraction
// fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) Result {
	return Result{Outcome: Failed, Err: ErrNotConfigured}
}

// Truncate shortens s to at most max characters.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
