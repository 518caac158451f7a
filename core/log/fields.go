package log

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxFieldLength bounds user-supplied text copied into log entries
const MaxFieldLength = 128

// NoteFields is the structured context attached to note business events
type NoteFields struct {
	NoteID  int64
	Title   string
	Content string
}

// Fields returns zap fields for the non-empty values. Title and content
// are truncated to MaxFieldLength runes.
func (nf NoteFields) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if nf.NoteID != 0 {
		fields = append(fields, zap.Int64("note_id", nf.NoteID))
	}
	if nf.Title != "" {
		fields = append(fields, zap.String("title", Truncate(nf.Title)))
	}
	if nf.Content != "" {
		fields = append(fields, zap.String("content", Truncate(nf.Content)))
	}
	return fields
}

// Truncate shortens s to MaxFieldLength runes, marking the cut with "..."
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxFieldLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxFieldLength]) + "..."
}
