package bencode

import "strconv"

// printer appends the canonical byte form of accepted tokens to an
// in-memory buffer. It never inspects or reorders content; any
// sorting must happen before tokens are offered to the tracker.
type printer struct {
	buf []byte
}

func (p *printer) writeToken(tok Token) {
	switch tok.Kind {
	case TokenString:
		p.writeString(tok.Str)
	case TokenInteger:
		p.buf = append(p.buf, 'i')
		p.buf = append(p.buf, tok.Num...)
		p.buf = append(p.buf, 'e')
	case TokenList:
		p.buf = append(p.buf, 'l')
	case TokenDict:
		p.buf = append(p.buf, 'd')
	case TokenEnd:
		p.buf = append(p.buf, 'e')
	}
}

func (p *printer) writeString(s []byte) {
	p.buf = strconv.AppendInt(p.buf, int64(len(s)), 10)
	p.buf = append(p.buf, ':')
	p.buf = append(p.buf, s...)
}

// writeRaw appends pre-encoded bytes. Used when replaying buffered
// dictionary values whose structure was already validated.
func (p *printer) writeRaw(b []byte) {
	p.buf = append(p.buf, b...)
}
