package workflow

// InputBuffer holds the draft reply for the current task.
// It does no validation; the backend decides what content is acceptable.
type InputBuffer struct {
	text string
}

// SetText replaces the draft.
func (b *InputBuffer) SetText(s string) {
	b.text = s
}

// Text returns the draft as typed, untrimmed.
func (b *InputBuffer) Text() string {
	return b.text
}

// Clear empties the draft.
func (b *InputBuffer) Clear() {
	b.text = ""
}
