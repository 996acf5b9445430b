package bencode

import (
	"math"
	"strconv"
)

// scanner cuts raw tokens out of a byte slice. It enforces the
// lexical rules only; structural validation happens in the
// StateTracker before a token is exposed upward.
type scanner struct {
	src    []byte
	offset int
}

func (sc *scanner) remaining() int {
	return len(sc.src) - sc.offset
}

// atEOF reports whether the cursor sits at a clean token boundary end.
func (sc *scanner) atEOF() bool {
	return sc.offset == len(sc.src)
}

func (sc *scanner) takeByte() (byte, bool) {
	if sc.offset < len(sc.src) {
		b := sc.src[sc.offset]
		sc.offset++
		return b, true
	}
	return 0, false
}

func (sc *scanner) takeChunk(n int) ([]byte, bool) {
	if n < 0 || n > sc.remaining() {
		return nil, false
	}
	chunk := sc.src[sc.offset : sc.offset+n]
	sc.offset += n
	return chunk, true
}

// integer scan states
const (
	intStart = iota
	intSign
	intZero
	intDigits
)

// takeInt consumes a minimal decimal integer up to and including the
// given terminator and returns the digit slice without it. Leading
// zeros, a bare '-', and -0 are syntax errors; running out of input
// before the terminator is CodeUnexpectedEOF.
func (sc *scanner) takeInt(terminator byte) (string, *Error) {
	pos := sc.offset
	state := intStart
	for ; pos < len(sc.src); pos++ {
		c := sc.src[pos]
		switch state {
		case intStart:
			switch {
			case c == '-':
				state = intSign
			case c == '0':
				state = intZero
			case c >= '1' && c <= '9':
				state = intDigits
			default:
				return "", errUnexpected("'-' or '0'..'9'", c, pos)
			}
		case intSign:
			if c >= '1' && c <= '9' {
				state = intDigits
			} else {
				return "", errUnexpected("'1'..'9'", c, pos)
			}
		case intZero:
			if c == terminator {
				digits := string(sc.src[sc.offset:pos])
				sc.offset = pos + 1
				return digits, nil
			}
			return "", errUnexpected(strconv.QuoteRune(rune(terminator)), c, pos)
		case intDigits:
			if c == terminator {
				digits := string(sc.src[sc.offset:pos])
				sc.offset = pos + 1
				return digits, nil
			}
			if c < '0' || c > '9' {
				return "", errUnexpected(strconv.QuoteRune(rune(terminator))+" or '0'..'9'", c, pos)
			}
		}
	}
	return "", newErrorAt(CodeUnexpectedEOF, pos, "input ended inside integer")
}

// next returns the next raw token. The second result is false at a
// clean end of input; truncation inside a token is an error.
func (sc *scanner) next() (Token, bool, *Error) {
	if sc.atEOF() {
		return Token{}, false, nil
	}
	lead, _ := sc.takeByte()
	switch {
	case lead == 'e':
		return Token{Kind: TokenEnd}, true, nil
	case lead == 'l':
		return Token{Kind: TokenList}, true, nil
	case lead == 'd':
		return Token{Kind: TokenDict}, true, nil
	case lead == 'i':
		digits, err := sc.takeInt('e')
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: TokenInteger, Num: digits}, true, nil
	case lead >= '0' && lead <= '9':
		sc.offset--
		lenPos := sc.offset
		digits, err := sc.takeInt(':')
		if err != nil {
			return Token{}, false, err
		}
		n, perr := strconv.ParseUint(digits, 10, 63)
		if perr != nil || n > uint64(math.MaxInt) {
			return Token{}, false, newErrorAt(CodeSyntax, lenPos, "string length %s out of range", digits)
		}
		chunk, ok := sc.takeChunk(int(n))
		if !ok {
			return Token{}, false, newErrorAt(CodeUnexpectedEOF, len(sc.src),
				"string truncated: want %d bytes, have %d", n, sc.remaining())
		}
		return Token{Kind: TokenString, Str: chunk}, true, nil
	default:
		return Token{}, false, errUnexpected("'i', 'l', 'd', 'e' or a digit", lead, sc.offset-1)
	}
}
