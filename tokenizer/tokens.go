package tokenizer

//go:generate stringer -type=TokenType
type TokenType uint

const (
	StartTagToken TokenType = iota
	EndTagToken
	TextToken
	CommentToken
	DoctypeToken
)

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// Attribute is one name/value pair collected while scanning a start tag.
// HasValue is false when the attribute had no "=" at all; that is distinct
// from an explicit empty value, where HasValue is true and Value is empty.
type Attribute struct {
	Name     Span
	Value    Span
	HasValue bool
}

// Token is a concrete token that is ready to be handed to the caller.
// Every span references the input buffer the tokenizer was built over.
// Raw covers the token's full source extent, delimiters included, so
// concatenating Raw across the stream reproduces the input.
type Token struct {
	Type        TokenType
	Name        Span
	Attributes  []Attribute
	SelfClosing bool
	Data        Span
	Raw         Span
}

// tokenBuilder accumulates span bounds for the token currently under
// construction. Finalizers are the only way to get a Token out; reset
// clears everything for the next one.
type tokenBuilder struct {
	tagType tagType

	name    Span
	nameSet bool

	attrs           []Attribute
	curName         Span
	curNameSet      bool
	curValue        Span
	curValueStarted bool
	curHasValue     bool

	data    Span
	dataSet bool

	selfClosing bool

	rawStart int
	rawSet   bool
}

func (b *tokenBuilder) reset() {
	*b = tokenBuilder{}
}

// beginTag starts a start- or end-tag token whose raw extent opens at pos
// (the position of the "<").
func (b *tokenBuilder) beginTag(t tagType, pos int) {
	b.tagType = t
	b.rawStart = pos
	b.rawSet = true
}

// beginRaw pins the raw extent of a comment, doctype, or CDATA token.
func (b *tokenBuilder) beginRaw(pos int) {
	b.rawStart = pos
	b.rawSet = true
}

// writeName extends the name span. Only a contiguous run is collected;
// once a gap appears the name is complete and further writes are ignored,
// which is what lets the doctype state reuse it for the first word only.
func (b *tokenBuilder) writeName(start, end int) {
	if !b.nameSet {
		b.name = Span{Start: start, End: end}
		b.nameSet = true
		return
	}
	if b.name.End == start {
		b.name.End = end
	}
}

func (b *tokenBuilder) writeAttributeName(start, end int) {
	if !b.curNameSet {
		b.curName = Span{Start: start, End: end}
		b.curNameSet = true
		return
	}
	b.curName.End = end
}

// markAttributeValue records that an "=" was seen: the attribute has a
// value even if no value character ever arrives. pos anchors the empty
// span used in that case.
func (b *tokenBuilder) markAttributeValue(pos int) {
	b.curHasValue = true
	if !b.curValueStarted {
		b.curValue = Span{Start: pos, End: pos}
	}
}

func (b *tokenBuilder) writeAttributeValue(start, end int) {
	if !b.curValueStarted {
		b.curValue = Span{Start: start, End: end}
		b.curValueStarted = true
		return
	}
	b.curValue.End = end
}

// commitAttribute finishes the pair under construction and appends it in
// source order. Duplicates are preserved; de-duplication is a downstream
// concern. A call with no pending name is a no-op.
func (b *tokenBuilder) commitAttribute() {
	if b.curNameSet {
		b.attrs = append(b.attrs, Attribute{
			Name:     b.curName,
			Value:    b.curValue,
			HasValue: b.curHasValue,
		})
	}
	b.clearAttribute()
}

// dropAttribute discards the pair under construction. Used when input
// ends inside an attribute value, so a partial tag reports only its
// fully formed attributes.
func (b *tokenBuilder) dropAttribute() {
	b.clearAttribute()
}

func (b *tokenBuilder) clearAttribute() {
	b.curName = Span{}
	b.curNameSet = false
	b.curValue = Span{}
	b.curValueStarted = false
	b.curHasValue = false
}

func (b *tokenBuilder) writeData(start, end int) {
	if !b.dataSet {
		b.data = Span{Start: start, End: end}
		b.dataSet = true
		if !b.rawSet {
			b.rawStart = start
			b.rawSet = true
		}
		return
	}
	b.data.End = end
}

func (b *tokenBuilder) enableSelfClosing() {
	b.selfClosing = true
}

func (b *tokenBuilder) takeAttributes() []Attribute {
	attrs := b.attrs
	b.attrs = nil
	if attrs == nil {
		attrs = []Attribute{}
	}
	return attrs
}

func (b *tokenBuilder) startTagToken(end int) Token {
	return Token{
		Type:        StartTagToken,
		Name:        b.name,
		Attributes:  b.takeAttributes(),
		SelfClosing: b.selfClosing,
		Raw:         Span{Start: b.rawStart, End: end},
	}
}

// endTagToken drops any attributes and self-closing flag scanned after
// the name; end tags carry a name only.
func (b *tokenBuilder) endTagToken(end int) Token {
	return Token{
		Type: EndTagToken,
		Name: b.name,
		Raw:  Span{Start: b.rawStart, End: end},
	}
}

func (b *tokenBuilder) textToken(end int) Token {
	return Token{
		Type: TextToken,
		Data: b.data,
		Raw:  Span{Start: b.rawStart, End: end},
	}
}

func (b *tokenBuilder) commentToken(end int) Token {
	return Token{
		Type: CommentToken,
		Data: b.data,
		Raw:  Span{Start: b.rawStart, End: end},
	}
}

func (b *tokenBuilder) doctypeToken(end int) Token {
	return Token{
		Type: DoctypeToken,
		Name: b.name,
		Raw:  Span{Start: b.rawStart, End: end},
	}
}
