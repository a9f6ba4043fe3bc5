package ui

import (
	"strings"
	"unicode/utf8"
)

// Fields renders a node summary as aligned key/value lines. Keys share
// one left column in the muted style; values wider than the display are
// truncated with an ellipsis so the summary never wraps. Widths are
// measured in runes, so multi-byte labels align and truncate cleanly.
type Fields struct {
	keys     []string
	values   []string
	keyWidth int
	maxWidth int
}

// NewFields creates an empty summary. A maxWidth of zero or less
// disables truncation.
func NewFields(maxWidth int) *Fields {
	return &Fields{maxWidth: maxWidth}
}

// Add appends one key/value line.
func (f *Fields) Add(key, value string) {
	f.keys = append(f.keys, key)
	f.values = append(f.values, value)
	if n := utf8.RuneCountInString(key); n > f.keyWidth {
		f.keyWidth = n
	}
}

// String renders the summary.
func (f *Fields) String() string {
	var b strings.Builder
	for i, key := range f.keys {
		val := f.values[i]
		if avail := f.maxWidth - f.keyWidth - 2; f.maxWidth > 0 && avail >= 4 {
			if runes := []rune(val); len(runes) > avail {
				val = string(runes[:avail-1]) + "…"
			}
		}
		b.WriteString(Muted.Render(key))
		b.WriteString(strings.Repeat(" ", f.keyWidth-utf8.RuneCountInString(key)+2))
		b.WriteString(val)
		b.WriteString("\n")
	}
	return b.String()
}
