package bencode

// Marshaler is the encoding side of the user-type contract. A type
// declares the maximum nesting depth it can encode to — atoms have
// depth 0, a container has the depth of its deepest member plus one —
// and writes exactly one value into the handle it is given. The
// encoder verifies the declared depth against the remaining budget at
// every insertion point.
type Marshaler interface {
	MaxBencodeDepth() int
	MarshalBencode(e *SingleItemEncoder) error
}

// Unmarshaler is the decoding side of the user-type contract: a
// single reconstruction callback taking the Object for one value.
// Implementations should annotate nested errors with Context so
// failures carry a dotted breadcrumb path.
type Unmarshaler interface {
	UnmarshalBencode(obj *Object) error
}

// Marshal encodes a single value to its canonical bencode form.
func Marshal(m Marshaler) ([]byte, error) {
	enc := NewEncoder().WithMaxDepth(m.MaxBencodeDepth())
	if err := enc.Emit(m); err != nil {
		return nil, err
	}
	return enc.Finish()
}

// Unmarshal decodes exactly one value from data into u. Trailing
// bytes after the value are rejected with CodeMultipleValues. If u
// also implements MaxBencodeDepth, that bound is used as the
// decoder's depth budget; otherwise DefaultMaxDepth applies.
func Unmarshal(data []byte, u Unmarshaler) error {
	dec := NewDecoder(data)
	if d, ok := u.(interface{ MaxBencodeDepth() int }); ok {
		dec = dec.WithMaxDepth(d.MaxBencodeDepth())
	}
	obj, err := dec.NextObject()
	if err != nil {
		return err
	}
	if obj == nil {
		return newError(CodeUnexpectedEOF, "no value in input")
	}
	if err := u.UnmarshalBencode(obj); err != nil {
		return err
	}
	// Drains whatever the Unmarshaler left unread and verifies there
	// is nothing after the top-level value.
	if _, err := dec.NextObject(); err != nil {
		return err
	}
	return nil
}
