package bencode

// Decoder reads bencode objects from a byte slice. Byte strings handed
// out alias the input buffer; integer digit strings are copies.
//
// A decoder is owned by one goroutine; it has no internal locking.
type Decoder struct {
	sc      scanner
	state   *StateTracker
	pending *Object
}

// NewDecoder creates a decoder over the given buffer with the default
// depth budget.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{
		sc:    scanner{src: buf},
		state: NewStateTracker(),
	}
}

// WithMaxDepth sets the absolute nesting budget and returns the
// decoder. Exceeding it reports CodeNestingTooDeep before any token
// of the offending container is consumed.
func (d *Decoder) WithMaxDepth(n int) *Decoder {
	d.state.SetMaxDepth(n)
	return d
}

// Streaming opts in to reading multiple concatenated top-level values
// from one buffer. Without it, any byte after the first complete
// value reports CodeMultipleValues.
func (d *Decoder) Streaming() *Decoder {
	d.state.SetStreaming(true)
	return d
}

// nextToken pulls one token from the scanner and offers it to the
// tracker before exposing it, so structurally invalid input is
// rejected at the earliest possible byte. ok is false at clean EOF.
func (d *Decoder) nextToken() (tok Token, ok bool, err error) {
	if err := d.state.CheckError(); err != nil {
		return Token{}, false, err
	}
	if d.sc.atEOF() {
		if err := d.state.ObserveEOF(); err != nil {
			return Token{}, false, err
		}
		return Token{}, false, nil
	}
	if d.state.rootDone && !d.state.streaming {
		return Token{}, false, d.state.latch(newErrorAt(CodeMultipleValues, d.sc.offset,
			"trailing data after the top-level value"))
	}
	tok, ok, serr := d.sc.next()
	if serr != nil {
		return Token{}, false, d.state.latch(serr)
	}
	if !ok {
		return Token{}, false, nil
	}
	if err := d.state.Observe(tok); err != nil {
		return Token{}, false, err
	}
	return tok, true, nil
}

// step reads the next object at the current nesting level. It returns
// nil both at clean EOF and when the enclosing container ends.
func (d *Decoder) step() (*Object, error) {
	tok, ok, err := d.nextToken()
	if err != nil || !ok {
		return nil, err
	}
	switch tok.Kind {
	case TokenEnd:
		return nil, nil
	case TokenString:
		return &Object{kind: TokenString, str: tok.Str}, nil
	case TokenInteger:
		return &Object{kind: TokenInteger, num: tok.Num}, nil
	case TokenList:
		return &Object{kind: TokenList, list: &ListDecoder{d: d, start: d.sc.offset - 1}}, nil
	default:
		return &Object{kind: TokenDict, dict: &DictDecoder{d: d, start: d.sc.offset - 1}}, nil
	}
}

// NextObject reads the next top-level object. It returns nil at a
// clean end of input. An object from a previous call that was not
// fully consumed is drained first, validating its remainder.
func (d *Decoder) NextObject() (*Object, error) {
	if err := d.drainPending(); err != nil {
		return nil, err
	}
	obj, err := d.step()
	if err != nil {
		return nil, err
	}
	d.pending = obj
	return obj, nil
}

func (d *Decoder) drainPending() error {
	if d.pending == nil {
		return nil
	}
	obj := d.pending
	d.pending = nil
	return obj.drain()
}

// Tokens returns a low-level iterator over the validated token
// stream. The iterator and NextObject share one cursor; use one or
// the other.
func (d *Decoder) Tokens() *Tokens {
	return &Tokens{d: d}
}

// Tokens iterates over the tokens of the input. The stream is
// guaranteed to form a valid bencode structure: every token has been
// accepted by the state tracker before being returned.
type Tokens struct {
	d    *Decoder
	done bool
}

// Next returns the next token. ok is false at end of stream; after an
// error the iterator stays exhausted.
func (t *Tokens) Next() (tok Token, ok bool, err error) {
	if t.done {
		return Token{}, false, nil
	}
	tok, ok, err = t.d.nextToken()
	if err != nil || !ok {
		t.done = true
	}
	return tok, ok, err
}

// ListDecoder consumes the elements of one list. It shares the
// parent's scanner and tracker.
type ListDecoder struct {
	d        *Decoder
	start    int
	finished bool
	pending  *Object
}

// NextObject returns the next list element, or nil at the end of the
// list.
func (l *ListDecoder) NextObject() (*Object, error) {
	if l.finished {
		return nil, nil
	}
	if err := l.drainPending(); err != nil {
		return nil, err
	}
	obj, err := l.d.step()
	if err != nil {
		return nil, err
	}
	if obj == nil {
		l.finished = true
		return nil, nil
	}
	l.pending = obj
	return obj, nil
}

func (l *ListDecoder) drainPending() error {
	if l.pending == nil {
		return nil
	}
	obj := l.pending
	l.pending = nil
	return obj.drain()
}

// ConsumeAll reads and validates the rest of the list. Call it when
// abandoning a list early, or rely on the parent draining it on its
// next advance.
func (l *ListDecoder) ConsumeAll() error {
	for {
		obj, err := l.NextObject()
		if err != nil {
			return err
		}
		if obj == nil {
			return nil
		}
	}
}

// Raw consumes the rest of the list and returns the exact input bytes
// that made it up, including the enclosing 'l' and 'e'.
func (l *ListDecoder) Raw() ([]byte, error) {
	if err := l.ConsumeAll(); err != nil {
		return nil, err
	}
	return l.d.sc.src[l.start:l.d.sc.offset], nil
}

// DictDecoder consumes the pairs of one dictionary. It shares the
// parent's scanner and tracker; key order is enforced by the tracker.
type DictDecoder struct {
	d        *Decoder
	start    int
	finished bool
	pending  *Object
}

// NextPair returns the next key and value. At the end of the
// dictionary the value is nil; check it rather than the key, which
// may legitimately be empty. The key aliases the input buffer.
func (dd *DictDecoder) NextPair() ([]byte, *Object, error) {
	if dd.finished {
		return nil, nil, nil
	}
	if err := dd.drainPending(); err != nil {
		return nil, nil, err
	}
	keyObj, err := dd.d.step()
	if err != nil {
		return nil, nil, err
	}
	if keyObj == nil {
		dd.finished = true
		return nil, nil, nil
	}
	// The tracker only admits strings in key position.
	key := keyObj.str
	val, err := dd.d.step()
	if err != nil {
		return nil, nil, err
	}
	dd.pending = val
	return key, val, nil
}

func (dd *DictDecoder) drainPending() error {
	if dd.pending == nil {
		return nil
	}
	obj := dd.pending
	dd.pending = nil
	return obj.drain()
}

// ConsumeAll reads and validates the rest of the dictionary.
func (dd *DictDecoder) ConsumeAll() error {
	for !dd.finished {
		if _, _, err := dd.NextPair(); err != nil {
			return err
		}
	}
	return nil
}

// Raw consumes the rest of the dictionary and returns the exact input
// bytes that made it up, including the enclosing 'd' and 'e'.
func (dd *DictDecoder) Raw() ([]byte, error) {
	if err := dd.ConsumeAll(); err != nil {
		return nil, err
	}
	return dd.d.sc.src[dd.start:dd.d.sc.offset], nil
}
