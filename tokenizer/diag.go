package tokenizer

import "fmt"

//go:generate stringer -type=DiagKind
type DiagKind uint

const (
	// DiagInvalidChar reports a character that fails the markup validity
	// predicate. The character stays inside the enclosing span; the
	// tokenizer does not rewrite the caller's buffer.
	DiagInvalidChar DiagKind = iota
	// DiagTruncation reports input that ended while a tag, attribute
	// value, comment, doctype, or CDATA section was still open.
	DiagTruncation
)

// Diag is one out-of-band condition observed during tokenization. Nothing
// a Diag describes is fatal to the tokenizer; the caller decides whether
// to abort on it.
type Diag struct {
	Kind   DiagKind
	Offset int
}

func (d Diag) String() string {
	return fmt.Sprintf("%s at offset %d", d.Kind, d.Offset)
}
