// Package bencode implements a strict, canonical bencode codec.
//
// Bencode admits four value kinds: byte strings, decimal integers,
// lists, and dictionaries keyed by byte strings. Because bencode is
// used to sign torrents and identify content by hash, every logical
// value has exactly one valid byte representation. This package
// enforces that canonical form in both directions:
//
//   - The decoder rejects any input that is not canonical: padded
//     integers (i03e, i-0e), padded string lengths (03:foo), unsorted
//     or duplicate dictionary keys, and trailing bytes after the
//     top-level value.
//   - The encoder cannot be driven into producing a non-canonical
//     stream; structural violations are reported at the first
//     offending token and latch the encoder into a failed state.
//
// Both directions funnel through the same StateTracker, so the rules
// are identical whether bytes are being produced or consumed.
//
// # Encoding
//
// Implement Marshaler for your types and use the scoped emitters:
//
//	type Message struct {
//	    Foo int64
//	    Bar string
//	}
//
//	func (m *Message) MaxBencodeDepth() int { return 1 }
//
//	func (m *Message) MarshalBencode(e *SingleItemEncoder) error {
//	    return e.EmitDict(func(d *DictEncoder) error {
//	        if err := d.EmitPair([]byte("bar"), StringValue(m.Bar)); err != nil {
//	            return err
//	        }
//	        return d.EmitPair([]byte("foo"), IntegerValue(m.Foo))
//	    })
//	}
//
// Keys passed to EmitPair must already be in ascending byte order;
// use Encoder.EmitAndSortDict when they are not.
//
// # Decoding
//
// Byte strings returned from an Object alias the input buffer; integer
// digit strings are copied out of it. Containers are consumed through
// sub-decoders:
//
//	dec := NewDecoder(buf)
//	obj, err := dec.NextObject()
//
// # Depth budgets
//
// Nesting depth is bounded by an explicit budget rather than by the
// goroutine stack. Atoms have depth 0; a container has the depth of
// its deepest member plus one. A Marshaler declares its maximum depth
// and the encoder checks the declaration against the remaining budget
// at the insertion point.
package bencode
