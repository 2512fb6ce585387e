package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// cursor tracks a position over the input buffer. It owns no parsing
// logic, only position arithmetic and bounds checks. A single rewind slot
// undoes the most recent advance; the state machine never needs deeper
// backtracking than that.
type cursor struct {
	input string
	pos   int
	prev  int // start of the rune most recently consumed by advance
}

func newCursor(input string) cursor {
	return cursor{input: input}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.input)
}

func (c *cursor) offset() int {
	return c.pos
}

// peek returns the rune at the current position without consuming it.
func (c *cursor) peek() (rune, bool) {
	if c.atEnd() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r, true
}

// advance consumes and returns the rune at the current position, arming
// the rewind slot.
func (c *cursor) advance() (rune, bool) {
	if c.atEnd() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(c.input[c.pos:])
	c.prev = c.pos
	c.pos += size
	return r, true
}

// rewind undoes the single most recent advance. Calling it twice in a row
// without an intervening advance is a no-op; it reports whether the
// position actually moved.
func (c *cursor) rewind() bool {
	if c.prev >= c.pos {
		return false
	}
	c.pos = c.prev
	c.prev = c.pos
	return true
}

// advanceBy skips n bytes. The rewind slot is disarmed; only single-rune
// advances are undoable.
func (c *cursor) advanceBy(n int) {
	c.pos += n
	if c.pos > len(c.input) {
		c.pos = len(c.input)
	}
	c.prev = c.pos
}

func (c *cursor) hasPrefix(p string) bool {
	return strings.HasPrefix(c.input[c.pos:], p)
}

// hasPrefixFold is the ASCII case-insensitive lookahead used for keyword
// dispatch after "<!".
func (c *cursor) hasPrefixFold(p string) bool {
	rest := c.input[c.pos:]
	if len(rest) < len(p) {
		return false
	}
	return strings.EqualFold(rest[:len(p)], p)
}
