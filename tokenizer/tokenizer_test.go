package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, in string) []Token {
	t.Helper()
	z := New(in)
	var out []Token
	for z.Next() {
		tok := z.Token()
		require.NotNil(t, tok)
		out = append(out, *tok)
	}
	return out
}

// attrPair is the string view of one attribute; value is nil when the
// attribute had no "=".
type attrPair struct {
	name  string
	value *string
}

func str(s string) *string { return &s }

func pairs(in string, tok Token) []attrPair {
	out := []attrPair{}
	for _, a := range tok.Attributes {
		p := attrPair{name: a.Name.Text(in)}
		if a.HasValue {
			p.value = str(a.Value.Text(in))
		}
		out = append(out, p)
	}
	return out
}

func TestWellFormedTag(t *testing.T) {
	t.Parallel()
	in := `<tag attr1="v1" attr2 attr3='v3'>text</tag>`
	toks := collect(t, in)
	require.Len(t, toks, 3)

	start := toks[0]
	require.Equal(t, StartTagToken, start.Type)
	assert.Equal(t, "tag", start.Name.Text(in))
	assert.False(t, start.SelfClosing)
	assert.Equal(t, []attrPair{
		{"attr1", str("v1")},
		{"attr2", nil},
		{"attr3", str("v3")},
	}, pairs(in, start))

	require.Equal(t, TextToken, toks[1].Type)
	assert.Equal(t, "text", toks[1].Data.Text(in))

	require.Equal(t, EndTagToken, toks[2].Type)
	assert.Equal(t, "tag", toks[2].Name.Text(in))
}

// Regression for the rewind-on-no-"=" rule: a valueless attribute must
// not shift the offsets of anything that follows it.
func TestValuelessAttributeOffsets(t *testing.T) {
	t.Parallel()

	t.Run("immediate close", func(t *testing.T) {
		t.Parallel()
		in := `<a disabled>`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		require.Equal(t, StartTagToken, toks[0].Type)
		assert.Equal(t, []attrPair{{"disabled", nil}}, pairs(in, toks[0]))
		assert.Equal(t, Span{Start: 0, End: 12}, toks[0].Raw)
	})

	t.Run("following tag keeps its position", func(t *testing.T) {
		t.Parallel()
		in := `<a disabled><i>`
		toks := collect(t, in)
		require.Len(t, toks, 2)
		assert.Equal(t, Span{Start: 12, End: 15}, toks[1].Raw)
		assert.Equal(t, Span{Start: 13, End: 14}, toks[1].Name)
	})

	t.Run("valueless then valued", func(t *testing.T) {
		t.Parallel()
		in := `<a b c=d>`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		attrs := toks[0].Attributes
		require.Len(t, attrs, 2)
		assert.Equal(t, Span{Start: 3, End: 4}, attrs[0].Name)
		assert.False(t, attrs[0].HasValue)
		assert.Equal(t, Span{Start: 5, End: 6}, attrs[1].Name)
		assert.Equal(t, Span{Start: 7, End: 8}, attrs[1].Value)
	})
}

func TestValuelessVersusEmptyValue(t *testing.T) {
	t.Parallel()
	in := `<a x y="" z=>`
	toks := collect(t, in)
	require.Len(t, toks, 1)
	attrs := toks[0].Attributes
	require.Len(t, attrs, 3)

	assert.False(t, attrs[0].HasValue, "bare name is absent, not empty")
	assert.True(t, attrs[1].HasValue, `="" is an explicit empty value`)
	assert.Equal(t, "", attrs[1].Value.Text(in))
	assert.True(t, attrs[2].HasValue, `dangling = is an explicit empty value`)
	assert.Equal(t, "", attrs[2].Value.Text(in))
}

func TestChevronInsideQuotedValue(t *testing.T) {
	t.Parallel()
	in := `<a title="1<2>3">`
	toks := collect(t, in)
	require.Len(t, toks, 1, "the > inside the value must not close the tag")
	require.Equal(t, StartTagToken, toks[0].Type)
	assert.Equal(t, []attrPair{{"title", str("1<2>3")}}, pairs(in, toks[0]))
	assert.Equal(t, Span{Start: 0, End: len(in)}, toks[0].Raw)
}

func TestSelfClosing(t *testing.T) {
	t.Parallel()

	t.Run("bare", func(t *testing.T) {
		t.Parallel()
		in := `<br/>`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		require.Equal(t, StartTagToken, toks[0].Type)
		assert.Equal(t, "br", toks[0].Name.Text(in))
		assert.True(t, toks[0].SelfClosing)
		assert.Empty(t, toks[0].Attributes)
	})

	t.Run("after attributes", func(t *testing.T) {
		t.Parallel()
		in := `<img src="x" />`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		assert.True(t, toks[0].SelfClosing)
		assert.Equal(t, []attrPair{{"src", str("x")}}, pairs(in, toks[0]))
	})

	t.Run("bare slash is not self-closing", func(t *testing.T) {
		t.Parallel()
		in := `<a /b>`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		assert.False(t, toks[0].SelfClosing)
		assert.Equal(t, []attrPair{{"/b", nil}}, pairs(in, toks[0]))
	})
}

func TestDuplicateAttributesPreserved(t *testing.T) {
	t.Parallel()
	in := `<a x="1" x="2">`
	toks := collect(t, in)
	require.Len(t, toks, 1)
	assert.Equal(t, []attrPair{{"x", str("1")}, {"x", str("2")}}, pairs(in, toks[0]))
}

func TestEndTagDropsAttributes(t *testing.T) {
	t.Parallel()
	in := `</a href="x">`
	toks := collect(t, in)
	require.Len(t, toks, 1)
	require.Equal(t, EndTagToken, toks[0].Type)
	assert.Equal(t, "a", toks[0].Name.Text(in))
	assert.Empty(t, toks[0].Attributes)
}

func TestComments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		data string
	}{
		{"<!-- hello -->", " hello "},
		{"<!--a-b-->", "a-b"},
		{"<!---->", ""},
		{"<!-->", ""},
		{"<!--->", ""},
		{"<!--a--->", "a-"},
		{"<?xml version='1.0'?>", "?xml version='1.0'?"},
		{"<!weird>", "weird"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			toks := collect(t, tt.in)
			require.Len(t, toks, 1)
			require.Equal(t, CommentToken, toks[0].Type)
			assert.Equal(t, tt.data, toks[0].Data.Text(tt.in))
			assert.Equal(t, Span{Start: 0, End: len(tt.in)}, toks[0].Raw)
		})
	}
}

func TestDoctype(t *testing.T) {
	t.Parallel()
	in := `<!DOCTYPE html><p>x</p>`
	toks := collect(t, in)
	require.Len(t, toks, 4)
	require.Equal(t, DoctypeToken, toks[0].Type)
	assert.Equal(t, "html", toks[0].Name.Text(in))
	assert.Equal(t, Span{Start: 0, End: 15}, toks[0].Raw)

	t.Run("case insensitive keyword", func(t *testing.T) {
		t.Parallel()
		in := `<!doctype HTML>`
		toks := collect(t, in)
		require.Len(t, toks, 1)
		require.Equal(t, DoctypeToken, toks[0].Type)
		assert.Equal(t, "HTML", toks[0].Name.Text(in))
	})
}

func TestCDATA(t *testing.T) {
	t.Parallel()
	in := `<![CDATA[1<2 && x]]>rest`
	toks := collect(t, in)
	require.Len(t, toks, 2)
	require.Equal(t, TextToken, toks[0].Type)
	assert.Equal(t, "1<2 && x", toks[0].Data.Text(in))
	assert.Equal(t, Span{Start: 0, End: 20}, toks[0].Raw)
	assert.Equal(t, "rest", toks[1].Data.Text(in))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		``,
		`plain text only`,
		`<html><body class="x">Hi there</body></html>`,
		`<a disabled>text`,
		`<!-- c --><p>x</p>`,
		`<!DOCTYPE html><html></html>`,
		`<![CDATA[1<2]]>done`,
		`<?pi data?>`,
		`a < b > c`,
		`<1 not a tag>`,
		`</>x`,
		`<a b=c d='e' f="g">`,
		`<foo bar baz=1 />`,
		`<!---->`,
		`<!--a--->`,
		`<a href="x`,
		`<a `,
		`<!`,
		`</`,
		`<`,
		`<p>héllo, 世界</p>`,
	}
	for _, in := range inputs {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			var sb strings.Builder
			for _, tok := range collect(t, in) {
				sb.WriteString(tok.Raw.Text(in))
			}
			assert.Equal(t, in, sb.String())
		})
	}
}

func TestTruncation(t *testing.T) {
	t.Parallel()

	t.Run("unterminated quoted value", func(t *testing.T) {
		t.Parallel()
		in := `<a href="unterminated`
		z := New(in)
		var toks []Token
		for z.Next() {
			toks = append(toks, *z.Token())
		}
		require.Len(t, toks, 1)
		require.Equal(t, StartTagToken, toks[0].Type)
		assert.Equal(t, "a", toks[0].Name.Text(in))
		assert.Empty(t, toks[0].Attributes, "half-built attribute must be dropped")
		assert.Equal(t, Span{Start: 0, End: len(in)}, toks[0].Raw)
		assert.True(t, z.Truncated())
		require.NotEmpty(t, z.Diagnostics())
		assert.Equal(t, DiagTruncation, z.Diagnostics()[0].Kind)
	})

	t.Run("prior attributes survive", func(t *testing.T) {
		t.Parallel()
		in := `<a id="1" href="x`
		z := New(in)
		tok := z.Token()
		require.NotNil(t, tok)
		assert.Equal(t, []attrPair{{"id", str("1")}}, pairs(in, *tok))
		assert.True(t, z.Truncated())
	})

	t.Run("unquoted value is kept", func(t *testing.T) {
		t.Parallel()
		in := `<a href=foo`
		z := New(in)
		tok := z.Token()
		require.NotNil(t, tok)
		assert.Equal(t, []attrPair{{"href", str("foo")}}, pairs(in, *tok))
		assert.True(t, z.Truncated())
	})

	t.Run("unterminated comment", func(t *testing.T) {
		t.Parallel()
		in := `<!-- never closed`
		z := New(in)
		tok := z.Token()
		require.NotNil(t, tok)
		require.Equal(t, CommentToken, tok.Type)
		assert.Equal(t, " never closed", tok.Data.Text(in))
		assert.True(t, z.Truncated())
	})

	t.Run("clean input is not truncated", func(t *testing.T) {
		t.Parallel()
		z := New(`<a>done</a>`)
		for z.Next() {
			z.Token()
		}
		assert.False(t, z.Truncated())
		assert.Empty(t, z.Diagnostics())
	})
}

func TestInvalidCharacterDiagnostic(t *testing.T) {
	t.Parallel()
	in := "a\x01b"
	z := New(in)
	var toks []Token
	for z.Next() {
		toks = append(toks, *z.Token())
	}
	require.Len(t, toks, 1)
	assert.Equal(t, in, toks[0].Data.Text(in), "span keeps the bad character")
	require.Len(t, z.Diagnostics(), 1)
	assert.Equal(t, Diag{Kind: DiagInvalidChar, Offset: 1}, z.Diagnostics()[0])
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	in := `<!DOCTYPE html><a b c="d"><!-- x -->text<br/></a><![CDATA[y]]>`
	first := collect(t, in)
	second := collect(t, in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("token sequences differ between runs (-first +second):\n%s", diff)
	}
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	t.Run("reads everything", func(t *testing.T) {
		t.Parallel()
		z, err := FromReader(strings.NewReader(`<a>x</a>`))
		require.NoError(t, err)
		var toks []Token
		for z.Next() {
			toks = append(toks, *z.Token())
		}
		require.Len(t, toks, 3)
	})

	t.Run("propagates read failure", func(t *testing.T) {
		t.Parallel()
		_, err := FromReader(failingReader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading input")
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

// TestStateParsers checks the basic state machine flows one transition at
// a time. Flows that depend on accumulated state or on lookahead are
// covered by the end-to-end tests above.
func TestStateParsers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		inRune            rune
		startingState     tokenizerState
		shouldReconsume   bool
		nextExpectedState tokenizerState
	}{
		{'<', dataState, false, tagOpenState},
		{'a', dataState, false, dataState},
		{'!', tagOpenState, false, markupDeclarationOpenState},
		{'/', tagOpenState, false, endTagOpenState},
		{'a', tagOpenState, true, tagNameState},
		{'?', tagOpenState, true, bogusCommentState},
		{'a', endTagOpenState, true, tagNameState},
		{' ', tagNameState, false, beforeAttributeNameState},
		{'a', tagNameState, false, tagNameState},
		{'>', tagNameState, false, dataState},
		{' ', beforeAttributeNameState, false, beforeAttributeNameState},
		{'>', beforeAttributeNameState, true, afterAttributeNameState},
		{'x', beforeAttributeNameState, true, attributeNameState},
		{'=', attributeNameState, false, beforeAttributeValueState},
		{' ', attributeNameState, false, afterAttributeNameState},
		{'>', attributeNameState, true, afterAttributeNameState},
		{'x', attributeNameState, false, attributeNameState},
		{'=', afterAttributeNameState, false, beforeAttributeValueState},
		{'>', afterAttributeNameState, false, dataState},
		{'x', afterAttributeNameState, true, attributeNameState},
		{'"', beforeAttributeValueState, false, attributeValueDoubleQuotedState},
		{'\'', beforeAttributeValueState, false, attributeValueSingleQuotedState},
		{'v', beforeAttributeValueState, true, attributeValueUnquotedState},
		{'"', attributeValueDoubleQuotedState, false, afterAttributeValueQuotedState},
		{'<', attributeValueDoubleQuotedState, false, attributeValueDoubleQuotedState},
		{'>', attributeValueDoubleQuotedState, false, attributeValueDoubleQuotedState},
		{'\'', attributeValueSingleQuotedState, false, afterAttributeValueQuotedState},
		{' ', attributeValueUnquotedState, false, beforeAttributeNameState},
		{'>', attributeValueUnquotedState, false, dataState},
		{'x', attributeValueUnquotedState, false, attributeValueUnquotedState},
		{' ', afterAttributeValueQuotedState, false, beforeAttributeNameState},
		{'>', afterAttributeValueQuotedState, false, dataState},
		{'x', afterAttributeValueQuotedState, true, beforeAttributeNameState},
		{'>', selfClosingStartTagState, false, dataState},
		{'x', selfClosingStartTagState, true, beforeAttributeNameState},
		{'-', commentStartState, false, commentStartDashState},
		{'x', commentStartState, true, commentState},
		{'-', commentState, false, commentEndDashState},
		{'x', commentState, false, commentState},
		{'-', commentEndDashState, false, commentEndState},
		{'x', commentEndDashState, true, commentState},
		{'>', commentEndState, false, dataState},
		{'-', commentEndState, false, commentEndState},
		{'x', commentEndState, true, commentState},
		{'>', bogusCommentState, false, dataState},
		{'x', bogusCommentState, false, bogusCommentState},
		{'>', doctypeState, false, dataState},
		{'h', doctypeState, false, doctypeState},
		{'x', cdataSectionState, false, cdataSectionState},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.inRune)+" in "+tt.startingState.String(), func(t *testing.T) {
			t.Parallel()
			z := New("")
			reconsume, next := z.stateToParser(tt.startingState)(tt.inRune, false)
			assert.Equal(t, tt.shouldReconsume, reconsume)
			assert.Equal(t, tt.nextExpectedState, next)
		})
	}
}
