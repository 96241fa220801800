package valueobjects

import (
	"strings"
	"unicode/utf8"

	pkgerrors "askbox-backend/pkg/errors"
)

const (
	// MaxQuestionLength bounds the text a stranger can drop into an inbox
	MaxQuestionLength = 500
	// MaxAnswerLength bounds the recipient's reply
	MaxAnswerLength = 2000
)

// Text is a value object for user-authored question and answer text.
// It is always trimmed and never empty.
type Text struct {
	value string
}

// NewQuestionText creates validated question text
func NewQuestionText(s string) (Text, error) {
	return newText(s, MaxQuestionLength, "question")
}

// NewAnswerText creates validated answer text
func NewAnswerText(s string) (Text, error) {
	return newText(s, MaxAnswerLength, "answer")
}

func newText(s string, max int, kind string) (Text, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Text{}, pkgerrors.NewValidationError(kind + " text cannot be empty")
	}
	if utf8.RuneCountInString(s) > max {
		return Text{}, pkgerrors.NewValidationError(kind + " text exceeds maximum length")
	}
	return Text{value: s}, nil
}

// ReconstructText rebuilds text from persistence without re-validating;
// stored values passed creation validation already
func ReconstructText(s string) Text {
	return Text{value: s}
}

// String returns the text value
func (t Text) String() string {
	return t.value
}

// IsZero checks if the text is the zero value
func (t Text) IsZero() bool {
	return t.value == ""
}

// Preview returns the text truncated to n runes for notification bodies.
// Truncation appends an ellipsis; it never splits a rune.
func (t Text) Preview(n int) string {
	if utf8.RuneCountInString(t.value) <= n {
		return t.value
	}
	runes := []rune(t.value)
	return string(runes[:n]) + "…"
}
