package tokenizer

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Tokenizer is a pull-based state machine over a fully decoded, in-memory
// buffer. It hands out one token at a time; every span on an emitted
// token references the buffer the tokenizer was built over. The sequence
// is single-pass and non-restartable. Independent buffers need
// independent instances; a single instance is not safe for concurrent
// use, and does not need to be.
type Tokenizer struct {
	input   string
	cursor  cursor
	state   tokenizerState
	builder tokenBuilder

	pending   []Token
	diags     []Diag
	truncated bool
	done      bool

	// pos and end bracket the rune currently being processed.
	pos int
	end int

	// lastInvalid dedupes invalid-character reports across reconsumes.
	lastInvalid int

	log *logrus.Entry
}

// New creates a tokenizer over input. The buffer is borrowed, never
// copied; it must stay alive as long as any emitted token's spans are in
// use.
func New(input string) *Tokenizer {
	return &Tokenizer{
		input:       input,
		cursor:      newCursor(input),
		state:       dataState,
		lastInvalid: -1,
		log:         newDiscardLogger(),
	}
}

// FromReader drains r and tokenizes the result. The core assumes
// already-decoded text; no encoding detection happens here.
func FromReader(r io.Reader) (*Tokenizer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "tokenizer: reading input")
	}
	return New(string(b)), nil
}

func newDiscardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// SetLogger installs a logger for the debug trace of state transitions.
func (z *Tokenizer) SetLogger(e *logrus.Entry) {
	if e != nil {
		z.log = e
	}
}

// Input returns the buffer this tokenizer's spans reference.
func (z *Tokenizer) Input() string {
	return z.input
}

// Next reports whether another token is available, advancing the machine
// as far as needed to find out.
func (z *Tokenizer) Next() bool {
	for len(z.pending) == 0 && !z.done {
		z.step()
	}
	return len(z.pending) > 0
}

// Token returns the next token, or nil once input is exhausted.
func (z *Tokenizer) Token() *Token {
	if !z.Next() {
		return nil
	}
	t := z.pending[0]
	z.pending = z.pending[1:]
	return &t
}

// Diagnostics returns the out-of-band conditions observed so far. None of
// them stop tokenization; the caller decides what is fatal.
func (z *Tokenizer) Diagnostics() []Diag {
	return z.diags
}

// Truncated reports whether input ended while a token was still open.
func (z *Tokenizer) Truncated() bool {
	return z.truncated
}

func (z *Tokenizer) report(kind DiagKind, offset int) {
	z.diags = append(z.diags, Diag{Kind: kind, Offset: offset})
}

// step consumes one rune and runs the current state's handler. A handler
// asks for a reconsume by returning true; that is realized as a one-rune
// cursor rewind so the next step re-reads the same rune in the new state
// and span offsets stay exact.
func (z *Tokenizer) step() {
	start := z.cursor.offset()
	r, ok := z.cursor.advance()
	z.pos, z.end = start, z.cursor.offset()
	eof := !ok

	if !eof && !isMarkupChar(r) && start > z.lastInvalid {
		z.report(DiagInvalidChar, start)
		z.lastInvalid = start
	}

	reconsume, next := z.stateToParser(z.state)(r, eof)
	z.log.WithField("state", z.state).Debugf("rune %q -> %s reconsume=%t", r, next, reconsume)

	if reconsume && !eof {
		z.cursor.rewind()
	}
	if eof && !reconsume {
		z.done = true
	}
	z.state = next
}

// a stateHandler takes the current rune and an end-of-input flag and
// returns whether to reconsume the rune plus the next state.
type stateHandler func(r rune, eof bool) (bool, tokenizerState)

func (z *Tokenizer) stateToParser(state tokenizerState) stateHandler {
	switch state {
	case dataState:
		return z.dataStateParser
	case tagOpenState:
		return z.tagOpenStateParser
	case endTagOpenState:
		return z.endTagOpenStateParser
	case tagNameState:
		return z.tagNameStateParser
	case beforeAttributeNameState:
		return z.beforeAttributeNameStateParser
	case attributeNameState:
		return z.attributeNameStateParser
	case afterAttributeNameState:
		return z.afterAttributeNameStateParser
	case beforeAttributeValueState:
		return z.beforeAttributeValueStateParser
	case attributeValueDoubleQuotedState:
		return z.attributeValueDoubleQuotedStateParser
	case attributeValueSingleQuotedState:
		return z.attributeValueSingleQuotedStateParser
	case attributeValueUnquotedState:
		return z.attributeValueUnquotedStateParser
	case afterAttributeValueQuotedState:
		return z.afterAttributeValueQuotedStateParser
	case selfClosingStartTagState:
		return z.selfClosingStartTagStateParser
	case markupDeclarationOpenState:
		return z.markupDeclarationOpenStateParser
	case commentStartState:
		return z.commentStartStateParser
	case commentStartDashState:
		return z.commentStartDashStateParser
	case commentState:
		return z.commentStateParser
	case commentEndDashState:
		return z.commentEndDashStateParser
	case commentEndState:
		return z.commentEndStateParser
	case bogusCommentState:
		return z.bogusCommentStateParser
	case doctypeState:
		return z.doctypeStateParser
	case cdataSectionState:
		return z.cdataSectionStateParser
	}

	return nil
}

// skippable matches the whitespace the skipping states tolerate: the
// contract set plus form feed, which real-world markup contains.
func skippable(r rune) bool {
	return isWhitespace(r) || r == '\f'
}

func (z *Tokenizer) flushText() {
	if !z.builder.dataSet {
		return
	}
	z.emit(z.builder.textToken(z.builder.data.End))
	z.builder.reset()
}

func (z *Tokenizer) emit(t Token) {
	z.pending = append(z.pending, t)
}

func (z *Tokenizer) emitCurrentTag() {
	switch z.builder.tagType {
	case startTag:
		z.emit(z.builder.startTagToken(z.end))
	case endTag:
		z.emit(z.builder.endTagToken(z.end))
	}
	z.builder.reset()
}

// emitTruncatedTag finishes the in-progress tag at end of input: best
// effort token out, truncation marker up.
func (z *Tokenizer) emitTruncatedTag() {
	z.markTruncated()
	z.emitCurrentTag()
}

func (z *Tokenizer) emitComment() {
	z.emit(z.builder.commentToken(z.end))
	z.builder.reset()
}

func (z *Tokenizer) markTruncated() {
	z.truncated = true
	z.report(DiagTruncation, len(z.input))
}

func (z *Tokenizer) dataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.flushText()
		return false, dataState
	}
	switch r {
	case '<':
		z.flushText()
		return false, tagOpenState
	default:
		z.builder.writeData(z.pos, z.end)
		return false, dataState
	}
}

func (z *Tokenizer) tagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		// a lone "<" at end of input is just text
		z.builder.writeData(z.pos-1, z.pos)
		z.flushText()
		return false, dataState
	}
	switch {
	case r == '!':
		return false, markupDeclarationOpenState
	case r == '/':
		return false, endTagOpenState
	case isNameStart(r):
		z.builder.reset()
		z.builder.beginTag(startTag, z.pos-1)
		return true, tagNameState
	case r == '?':
		z.builder.reset()
		z.builder.beginRaw(z.pos - 1)
		return true, bogusCommentState
	default:
		// not a tag after all; the "<" folds back into text
		z.builder.writeData(z.pos-1, z.pos)
		return true, dataState
	}
}

func (z *Tokenizer) endTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.writeData(z.pos-2, z.pos)
		z.flushText()
		return false, dataState
	}
	switch {
	case isNameStart(r):
		z.builder.reset()
		z.builder.beginTag(endTag, z.pos-2)
		return true, tagNameState
	case r == '>':
		// "</>" carries no name; keep it as text so the stream still
		// covers the whole input
		z.builder.writeData(z.pos-2, z.end)
		return false, dataState
	default:
		z.builder.reset()
		z.builder.beginRaw(z.pos - 2)
		return true, bogusCommentState
	}
}

func (z *Tokenizer) tagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.emitTruncatedTag()
		return false, dataState
	}
	switch {
	case skippable(r):
		return false, beforeAttributeNameState
	case r == '/':
		if nr, ok := z.cursor.peek(); ok && nr == '>' {
			return false, selfClosingStartTagState
		}
		return false, beforeAttributeNameState
	case r == '>':
		z.emitCurrentTag()
		return false, dataState
	default:
		z.builder.writeName(z.pos, z.end)
		return false, tagNameState
	}
}

func (z *Tokenizer) beforeAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case skippable(r):
		return false, beforeAttributeNameState
	case r == '>':
		return true, afterAttributeNameState
	case r == '/':
		if nr, ok := z.cursor.peek(); ok && nr == '>' {
			return false, selfClosingStartTagState
		}
		// bare "/": an ordinary name character
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	case r == '=':
		// "=" with no preceding name starts a name with it
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	default:
		return true, attributeNameState
	}
}

func (z *Tokenizer) attributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		// the name is fully formed; the attribute commits valueless
		z.builder.commitAttribute()
		return true, afterAttributeNameState
	}
	switch {
	case skippable(r):
		// an "=" may still follow; the valueless-or-not decision is
		// made in afterAttributeName
		return false, afterAttributeNameState
	case r == '>':
		z.builder.commitAttribute()
		return true, afterAttributeNameState
	case r == '/':
		if nr, ok := z.cursor.peek(); ok && nr == '>' {
			z.builder.commitAttribute()
			return false, selfClosingStartTagState
		}
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	case r == '=':
		z.builder.markAttributeValue(z.end)
		return false, beforeAttributeValueState
	default:
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	}
}

func (z *Tokenizer) afterAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.commitAttribute()
		z.emitTruncatedTag()
		return false, dataState
	}
	switch {
	case skippable(r):
		return false, afterAttributeNameState
	case r == '=':
		z.builder.markAttributeValue(z.end)
		return false, beforeAttributeValueState
	case r == '>':
		z.builder.commitAttribute()
		z.emitCurrentTag()
		return false, dataState
	case r == '/':
		if nr, ok := z.cursor.peek(); ok && nr == '>' {
			z.builder.commitAttribute()
			return false, selfClosingStartTagState
		}
		z.builder.commitAttribute()
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	default:
		// no "=" followed after all: the pending attribute is valueless
		// and this character opens the next name. Hand it back so the
		// next attribute's start offset stays exact.
		z.builder.commitAttribute()
		return true, attributeNameState
	}
}

func (z *Tokenizer) beforeAttributeValueStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.dropAttribute()
		z.emitTruncatedTag()
		return false, dataState
	}
	switch {
	case skippable(r):
		return false, beforeAttributeValueState
	case isQuote(r):
		z.builder.markAttributeValue(z.end)
		if r == '"' {
			return false, attributeValueDoubleQuotedState
		}
		return false, attributeValueSingleQuotedState
	case r == '>':
		// "=" followed by ">": explicit empty value
		z.builder.commitAttribute()
		z.emitCurrentTag()
		return false, dataState
	default:
		return true, attributeValueUnquotedState
	}
}

func (z *Tokenizer) attributeValueDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.dropAttribute()
		z.emitTruncatedTag()
		return false, dataState
	}
	switch r {
	case '"':
		z.builder.commitAttribute()
		return false, afterAttributeValueQuotedState
	default:
		// "<" and ">" included: only the matching quote terminates
		z.builder.writeAttributeValue(z.pos, z.end)
		return false, attributeValueDoubleQuotedState
	}
}

func (z *Tokenizer) attributeValueSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.dropAttribute()
		z.emitTruncatedTag()
		return false, dataState
	}
	switch r {
	case '\'':
		z.builder.commitAttribute()
		return false, afterAttributeValueQuotedState
	default:
		z.builder.writeAttributeValue(z.pos, z.end)
		return false, attributeValueSingleQuotedState
	}
}

func (z *Tokenizer) attributeValueUnquotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		// no closing delimiter exists for unquoted values, so the value
		// is complete as far as it goes; only the tag is truncated
		z.builder.commitAttribute()
		z.emitTruncatedTag()
		return false, dataState
	}
	switch {
	case skippable(r):
		z.builder.commitAttribute()
		return false, beforeAttributeNameState
	case r == '>':
		z.builder.commitAttribute()
		z.emitCurrentTag()
		return false, dataState
	default:
		z.builder.writeAttributeValue(z.pos, z.end)
		return false, attributeValueUnquotedState
	}
}

func (z *Tokenizer) afterAttributeValueQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.emitTruncatedTag()
		return false, dataState
	}
	switch {
	case skippable(r):
		return false, beforeAttributeNameState
	case r == '/':
		if nr, ok := z.cursor.peek(); ok && nr == '>' {
			return false, selfClosingStartTagState
		}
		z.builder.writeAttributeName(z.pos, z.end)
		return false, attributeNameState
	case r == '>':
		z.emitCurrentTag()
		return false, dataState
	default:
		// missing whitespace between attributes; tolerated
		return true, beforeAttributeNameState
	}
}

func (z *Tokenizer) selfClosingStartTagStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.emitTruncatedTag()
		return false, dataState
	}
	switch r {
	case '>':
		z.builder.enableSelfClosing()
		z.emitCurrentTag()
		return false, dataState
	default:
		return true, beforeAttributeNameState
	}
}

func (z *Tokenizer) markupDeclarationOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		// "<!" at end of input is text
		z.builder.writeData(z.pos-2, z.pos)
		z.flushText()
		return false, dataState
	}
	switch {
	case r == '-' && z.cursor.hasPrefix("-"):
		z.cursor.advanceBy(1)
		z.builder.reset()
		z.builder.beginRaw(z.pos - 2)
		return false, commentStartState
	case (r == 'd' || r == 'D') && z.cursor.hasPrefixFold("octype"):
		z.cursor.advanceBy(len("octype"))
		z.builder.reset()
		z.builder.beginRaw(z.pos - 2)
		return false, doctypeState
	case r == '[' && z.cursor.hasPrefix("CDATA["):
		z.cursor.advanceBy(len("CDATA["))
		z.builder.reset()
		z.builder.beginRaw(z.pos - 2)
		return false, cdataSectionState
	default:
		z.builder.reset()
		z.builder.beginRaw(z.pos - 2)
		return true, bogusCommentState
	}
}

func (z *Tokenizer) commentStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentStartDashState
	case '>':
		// "<!-->": abrupt close, empty comment
		z.emitComment()
		return false, dataState
	default:
		return true, commentState
	}
}

func (z *Tokenizer) commentStartDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.writeData(z.pos-1, z.pos)
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		// "<!--->": abrupt close
		z.emitComment()
		return false, dataState
	default:
		z.builder.writeData(z.pos-1, z.pos)
		return true, commentState
	}
}

func (z *Tokenizer) commentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndDashState
	default:
		z.builder.writeData(z.pos, z.end)
		return false, commentState
	}
}

func (z *Tokenizer) commentEndDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.builder.writeData(z.pos-1, z.pos)
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	default:
		z.builder.writeData(z.pos-1, z.pos)
		return true, commentState
	}
}

func (z *Tokenizer) commentEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '>':
		z.emitComment()
		return false, dataState
	case '-':
		// "--->": the extra dash belongs to the content
		z.builder.writeData(z.pos-2, z.pos-1)
		return false, commentEndState
	default:
		z.builder.writeData(z.pos-2, z.pos)
		return true, commentState
	}
}

func (z *Tokenizer) bogusCommentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emitComment()
		return false, dataState
	}
	switch r {
	case '>':
		z.emitComment()
		return false, dataState
	default:
		z.builder.writeData(z.pos, z.end)
		return false, bogusCommentState
	}
}

func (z *Tokenizer) doctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emit(z.builder.doctypeToken(z.end))
		z.builder.reset()
		return false, dataState
	}
	switch {
	case skippable(r):
		return false, doctypeState
	case r == '>':
		z.emit(z.builder.doctypeToken(z.end))
		z.builder.reset()
		return false, dataState
	default:
		// only the first contiguous word lands in the name; public and
		// system identifiers are swallowed
		z.builder.writeName(z.pos, z.end)
		return false, doctypeState
	}
}

func (z *Tokenizer) cdataSectionStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		z.markTruncated()
		z.emit(z.builder.textToken(z.end))
		z.builder.reset()
		return false, dataState
	}
	switch {
	case r == ']' && z.cursor.hasPrefix("]>"):
		z.cursor.advanceBy(2)
		z.emit(z.builder.textToken(z.cursor.offset()))
		z.builder.reset()
		return false, dataState
	default:
		z.builder.writeData(z.pos, z.end)
		return false, cdataSectionState
	}
}

//go:generate stringer -type=tokenizerState
type tokenizerState uint

const (
	dataState tokenizerState = iota
	tagOpenState
	endTagOpenState
	tagNameState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentEndDashState
	commentEndState
	bogusCommentState
	doctypeState
	cdataSectionState
)
