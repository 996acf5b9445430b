package bencode

import "fmt"

// TokenKind identifies the kind of a raw bencode token.
type TokenKind uint8

const (
	// TokenString is a byte string; the payload may not be UTF-8.
	TokenString TokenKind = iota
	// TokenInteger is an integer. The payload is kept as a validated
	// digit slice, never parsed here: it could be signed, unsigned,
	// or a bignum.
	TokenInteger
	// TokenList marks the beginning of a list.
	TokenList
	// TokenDict marks the beginning of a dictionary.
	TokenDict
	// TokenEnd closes the innermost open list or dictionary.
	TokenEnd
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "String"
	case TokenInteger:
		return "Integer"
	case TokenList:
		return "List"
	case TokenDict:
		return "Dict"
	case TokenEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Token is one raw bencode token. Str is a borrowed view into either
// the decoder's input buffer or the caller's memory; a Token must not
// outlive the buffer it was cut from. Num is an ordinary string; the
// decoder copies the digits into it.
type Token struct {
	Kind TokenKind
	Str  []byte // payload when Kind == TokenString
	Num  string // digit slice when Kind == TokenInteger
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Kind {
	case TokenString:
		return fmt.Sprintf("String(%q)", t.Str)
	case TokenInteger:
		return fmt.Sprintf("Integer(%s)", t.Num)
	default:
		return t.Kind.String()
	}
}

// validDigits reports whether s is a minimal decimal integer:
// 0, or an optional '-' followed by a nonzero leading digit.
// Matches 0 | -?[1-9][0-9]*.
func validDigits(s string) bool {
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	i := 0
	if s[0] == '-' {
		i = 1
		if len(s) == 1 {
			return false
		}
	}
	if s[i] < '1' || s[i] > '9' {
		return false
	}
	for i++; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
