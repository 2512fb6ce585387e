package tokenizer

import "unicode"

// Character classes used by the state machine. All of these are total
// functions over every rune; none of them keeps state.

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == ':'
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

func isNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}

	switch r {
	case 0xFFFE, 0xFFFF, 0x1FFFE, 0x1FFFF, 0x2FFFE, 0x2FFFF, 0x3FFFE, 0x3FFFF, 0x4FFFE, 0x4FFFF, 0x5FFFE, 0x5FFFF, 0x6FFFE, 0x6FFFF, 0x7FFFE, 0x7FFFF, 0x8FFFE, 0x8FFFF, 0x9FFFE, 0x9FFFF, 0xAFFFE, 0xAFFFF, 0xBFFFE, 0xBFFFF, 0xCFFFE, 0xCFFFF, 0xDFFFE, 0xDFFFF, 0xEFFFE, 0xEFFFF, 0xFFFFE, 0xFFFFF, 0x10FFFE, 0x10FFFF:
		return true
	default:
		return false
	}
}

func isC0Control(r rune) bool {
	return r >= 0x00 && r <= 0x1F
}

func isControl(r rune) bool {
	return isC0Control(r) || (r >= 0x7F && r <= 0x9F)
}

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// isMarkupChar is the validity predicate for characters that may appear in
// markup text at all. Whitespace controls pass; other control characters,
// surrogates, and Unicode noncharacters do not.
func isMarkupChar(r rune) bool {
	if isWhitespace(r) || r == '\f' {
		return true
	}
	if isControl(r) || isSurrogate(r) || isNonCharacter(r) {
		return false
	}
	return r >= 0 && r <= 0x10FFFF
}
