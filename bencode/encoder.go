package bencode

import (
	"bytes"
	"sort"
	"strconv"
)

// Encoder produces a canonical bencode byte stream. Every emitted
// token is offered to a StateTracker before any bytes are written, so
// the encoder cannot be driven into producing invalid or
// non-canonical output: the offending call fails and the encoder
// latches into a failed state.
//
// Unlike the decoder, the encoder copies: it owns its output buffer
// from construction until Finish.
type Encoder struct {
	state *StateTracker
	out   printer
}

// NewEncoder creates an encoder with the default depth budget.
func NewEncoder() *Encoder {
	return &Encoder{state: NewStateTracker()}
}

// WithMaxDepth sets the depth budget for the encoded object and
// returns the encoder.
func (e *Encoder) WithMaxDepth(n int) *Encoder {
	e.state.SetMaxDepth(n)
	return e
}

// emitToken offers one token to the tracker and, if accepted, appends
// its canonical bytes.
func (e *Encoder) emitToken(tok Token) error {
	if err := e.state.CheckError(); err != nil {
		return err
	}
	if err := e.state.Observe(tok); err != nil {
		return err
	}
	e.out.writeToken(tok)
	return nil
}

// EmitInt emits an integer value.
func (e *Encoder) EmitInt(v int64) error {
	return e.EmitDigits(strconv.FormatInt(v, 10))
}

// EmitUint emits an unsigned integer value.
func (e *Encoder) EmitUint(v uint64) error {
	return e.EmitDigits(strconv.FormatUint(v, 10))
}

// EmitDigits emits an integer given as its decimal digit slice. The
// digits must be minimal (0 | -?[1-9][0-9]*); anything else reports
// CodeInvalidInteger. This is the passthrough for integers wider than
// the machine word: the codec transports digits, it does not do
// arithmetic.
func (e *Encoder) EmitDigits(digits string) error {
	return e.emitToken(Token{Kind: TokenInteger, Num: digits})
}

// EmitString emits a string as a bencode byte string.
func (e *Encoder) EmitString(s string) error {
	return e.emitToken(Token{Kind: TokenString, Str: []byte(s)})
}

// EmitBytes emits a byte string.
func (e *Encoder) EmitBytes(b []byte) error {
	return e.emitToken(Token{Kind: TokenString, Str: b})
}

// EmitList emits a list. The callback emits the elements; the closing
// End is offered on every exit path, and a callback error latches the
// encoder.
func (e *Encoder) EmitList(f func(*Encoder) error) error {
	if err := e.emitToken(Token{Kind: TokenList}); err != nil {
		return err
	}
	if err := f(e); err != nil {
		err = e.state.Latch(err)
		e.emitToken(Token{Kind: TokenEnd})
		return err
	}
	return e.emitToken(Token{Kind: TokenEnd})
}

// EmitDict emits a dictionary whose pairs are already in ascending
// key order. An out-of-order or duplicate key is reported with
// CodeUnsortedKeys at the offending EmitPair and the encoder is left
// failed. Use EmitAndSortDict when the order is not known.
func (e *Encoder) EmitDict(f func(*DictEncoder) error) error {
	if err := e.emitToken(Token{Kind: TokenDict}); err != nil {
		return err
	}
	if err := f(&DictEncoder{enc: e}); err != nil {
		err = e.state.Latch(err)
		e.emitToken(Token{Kind: TokenEnd})
		return err
	}
	return e.emitToken(Token{Kind: TokenEnd})
}

// Emit emits a user-defined value through its Marshaler. The value's
// declared depth is checked against the remaining budget at this
// insertion point before its callback runs.
func (e *Encoder) Emit(m Marshaler) error {
	if err := e.checkDeclaredDepth(m); err != nil {
		return err
	}
	return e.EmitWith(m.MarshalBencode)
}

func (e *Encoder) checkDeclaredDepth(m Marshaler) error {
	if err := e.state.CheckError(); err != nil {
		return err
	}
	if d := m.MaxBencodeDepth(); d > e.state.RemainingDepth() {
		return e.state.latch(newError(CodeNestingTooDeep,
			"value depth %d exceeds remaining budget %d", d, e.state.RemainingDepth()))
	}
	return nil
}

// EmitWith runs a callback that must emit exactly one value through
// the given one-shot handle.
func (e *Encoder) EmitWith(f func(*SingleItemEncoder) error) error {
	written := false
	err := f(&SingleItemEncoder{enc: e, written: &written})
	if err != nil {
		return e.state.Latch(err)
	}
	if err := e.state.CheckError(); err != nil {
		return err
	}
	if !written {
		return e.state.latch(newError(CodeUnexpectedToken, "no value was emitted"))
	}
	return nil
}

// EmitAndSortDict emits a dictionary whose pairs may arrive in any
// order. Each value is encoded into a temporary buffer; the pairs are
// then sorted by unsigned byte order of key and replayed. Duplicate
// keys report CodeUnsortedKeys: dropping one silently would lose
// data, and a duplicate is never canonical.
func (e *Encoder) EmitAndSortDict(f func(*SortingDictEncoder) error) error {
	// Offer the dict open first so a pre-existing failure is reported
	// before the callback buffers anything.
	if err := e.emitToken(Token{Kind: TokenDict}); err != nil {
		return err
	}
	sde := &SortingDictEncoder{remaining: e.state.RemainingDepth()}
	if err := f(sde); err != nil {
		err = e.state.Latch(err)
		e.emitToken(Token{Kind: TokenEnd})
		return err
	}
	if sde.err != nil {
		err := e.state.Latch(sde.err)
		e.emitToken(Token{Kind: TokenEnd})
		return err
	}

	sort.SliceStable(sde.pairs, func(i, j int) bool {
		return bytes.Compare(sde.pairs[i].key, sde.pairs[j].key) < 0
	})
	for _, p := range sde.pairs {
		if err := e.emitToken(Token{Kind: TokenString, Str: p.key}); err != nil {
			return err
		}
		// The buffered value is a complete single object by
		// construction; stand in for it with a scalar so the tracker
		// sees the key as consumed.
		if err := e.state.Observe(Token{Kind: TokenInteger, Num: "0"}); err != nil {
			return err
		}
		e.out.writeRaw(p.value)
	}
	return e.emitToken(Token{Kind: TokenEnd})
}

// Finish verifies that exactly one complete value was emitted and
// yields the output buffer. The encoder must not be used afterwards;
// further operations report a latched failure.
func (e *Encoder) Finish() ([]byte, error) {
	if err := e.state.ObserveEOF(); err != nil {
		return nil, err
	}
	if !e.state.Complete() {
		return nil, e.state.latch(newError(CodeUnexpectedEOF, "no value was emitted"))
	}
	out := e.out.buf
	e.out.buf = nil
	e.state.latch(newError(CodeUnexpectedToken, "encoder already finished"))
	return out, nil
}

// SingleItemEncoder is a one-shot handle that accepts exactly one
// value. It is the plug-in point for user types: MarshalBencode
// receives one and must emit a single value through it.
type SingleItemEncoder struct {
	enc     *Encoder
	written *bool
}

// EmitInt emits an integer value.
func (s *SingleItemEncoder) EmitInt(v int64) error {
	*s.written = true
	return s.enc.EmitInt(v)
}

// EmitUint emits an unsigned integer value.
func (s *SingleItemEncoder) EmitUint(v uint64) error {
	*s.written = true
	return s.enc.EmitUint(v)
}

// EmitDigits emits an integer given as its minimal digit slice.
func (s *SingleItemEncoder) EmitDigits(digits string) error {
	*s.written = true
	return s.enc.EmitDigits(digits)
}

// EmitString emits a string as a byte string.
func (s *SingleItemEncoder) EmitString(v string) error {
	*s.written = true
	return s.enc.EmitString(v)
}

// EmitBytes emits a byte string.
func (s *SingleItemEncoder) EmitBytes(b []byte) error {
	*s.written = true
	return s.enc.EmitBytes(b)
}

// EmitList emits a list via a callback.
func (s *SingleItemEncoder) EmitList(f func(*Encoder) error) error {
	*s.written = true
	return s.enc.EmitList(f)
}

// EmitDict emits a pre-sorted dictionary via a callback.
func (s *SingleItemEncoder) EmitDict(f func(*DictEncoder) error) error {
	*s.written = true
	return s.enc.EmitDict(f)
}

// EmitAndSortDict emits a dictionary, sorting its pairs first.
func (s *SingleItemEncoder) EmitAndSortDict(f func(*SortingDictEncoder) error) error {
	*s.written = true
	return s.enc.EmitAndSortDict(f)
}

// Emit emits a nested user-defined value.
func (s *SingleItemEncoder) Emit(m Marshaler) error {
	*s.written = true
	return s.enc.Emit(m)
}

// EmitWith forwards the handle to another callback.
func (s *SingleItemEncoder) EmitWith(f func(*SingleItemEncoder) error) error {
	return f(s)
}

// DictEncoder emits the pairs of a dictionary whose keys are already
// sorted.
type DictEncoder struct {
	enc *Encoder
}

// EmitPair emits one key/value pair.
func (d *DictEncoder) EmitPair(key []byte, value Marshaler) error {
	if err := d.enc.emitToken(Token{Kind: TokenString, Str: key}); err != nil {
		return err
	}
	return d.enc.Emit(value)
}

// EmitPairWith emits one pair with the value produced by a callback.
func (d *DictEncoder) EmitPairWith(key []byte, f func(*SingleItemEncoder) error) error {
	if err := d.enc.emitToken(Token{Kind: TokenString, Str: key}); err != nil {
		return err
	}
	return d.enc.EmitWith(f)
}

type sortPair struct {
	key   []byte
	value []byte
}

// SortingDictEncoder buffers key/value pairs so they can be sorted
// before being replayed into the output stream.
type SortingDictEncoder struct {
	pairs     []sortPair
	seen      map[string]struct{}
	remaining int
	err       error
}

// EmitPair buffers one key/value pair.
func (s *SortingDictEncoder) EmitPair(key []byte, value Marshaler) error {
	return s.EmitPairWith(key, func(se *SingleItemEncoder) error {
		return se.Emit(value)
	})
}

// EmitPairWith buffers one pair with the value produced by a
// callback. The value is encoded immediately into a temporary buffer
// with the depth budget remaining at the enclosing dictionary.
func (s *SortingDictEncoder) EmitPairWith(key []byte, f func(*SingleItemEncoder) error) error {
	if s.err != nil {
		return s.err
	}
	if _, dup := s.seen[string(key)]; dup {
		s.err = newError(CodeUnsortedKeys, "duplicate key %q", key)
		return s.err
	}

	sub := NewEncoder().WithMaxDepth(s.remaining)
	if err := sub.EmitWith(f); err != nil {
		s.err = err
		return err
	}
	encoded, err := sub.Finish()
	if err != nil {
		s.err = err
		return err
	}

	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	s.seen[string(key)] = struct{}{}
	s.pairs = append(s.pairs, sortPair{
		key:   append([]byte(nil), key...),
		value: encoded,
	})
	return nil
}
