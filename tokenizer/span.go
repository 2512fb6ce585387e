package tokenizer

// Span is a half-open [Start, End) byte range into the input buffer that
// produced it. It owns no data; callers that need the text past the
// buffer's lifetime must copy it out with Text.
type Span struct {
	Start int
	End   int
}

// IsZero reports whether the span has never been set.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Len returns the length of the spanned range in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text slices the spanned range out of input. Out-of-range spans are
// clamped rather than panicking so that a span from one buffer applied to
// a shorter one degrades to the empty string.
func (s Span) Text(input string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(input) {
		end = len(input)
	}
	if start >= end {
		return ""
	}
	return input[start:end]
}
