package bencode

import (
	"bytes"
	"sort"
)

// ValueKind identifies the variant of a Value.
type ValueKind uint8

const (
	ValueBytes ValueKind = iota
	ValueInteger
	ValueList
	ValueDict
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueBytes:
		return "bytes"
	case ValueInteger:
		return "integer"
	case ValueList:
		return "list"
	case ValueDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value holds arbitrary owned bencode data. Unlike an Object, a Value
// can be cloned, stored, and traversed any number of times. It
// implements both sides of the user-type contract, so Marshal and
// Unmarshal round-trip canonical input. Integers are held as int64:
// decoding an integer outside that range reports CodeUnexpectedType.
type Value struct {
	kind    ValueKind
	bytes   []byte
	integer int64
	list    []*Value
	dict    map[string]*Value
}

// BytesValue creates a byte string value.
func BytesValue(b []byte) *Value {
	return &Value{kind: ValueBytes, bytes: b}
}

// StringValue creates a byte string value from a string.
func StringValue(s string) *Value {
	return &Value{kind: ValueBytes, bytes: []byte(s)}
}

// IntegerValue creates an integer value.
func IntegerValue(i int64) *Value {
	return &Value{kind: ValueInteger, integer: i}
}

// ListValue creates a list value.
func ListValue(elems ...*Value) *Value {
	return &Value{kind: ValueList, list: elems}
}

// DictValue creates an empty dictionary value; fill it with Set.
func DictValue() *Value {
	return &Value{kind: ValueDict, dict: make(map[string]*Value)}
}

// Kind returns the variant of this value.
func (v *Value) Kind() ValueKind {
	return v.kind
}

// Bytes returns the byte string payload.
func (v *Value) Bytes() ([]byte, error) {
	if v.kind != ValueBytes {
		return nil, newError(CodeUnexpectedType, "expected bytes, got %s", v.kind)
	}
	return v.bytes, nil
}

// Integer returns the integer payload.
func (v *Value) Integer() (int64, error) {
	if v.kind != ValueInteger {
		return 0, newError(CodeUnexpectedType, "expected integer, got %s", v.kind)
	}
	return v.integer, nil
}

// List returns the list elements.
func (v *Value) List() ([]*Value, error) {
	if v.kind != ValueList {
		return nil, newError(CodeUnexpectedType, "expected list, got %s", v.kind)
	}
	return v.list, nil
}

// Dict returns the dictionary entries.
func (v *Value) Dict() (map[string]*Value, error) {
	if v.kind != ValueDict {
		return nil, newError(CodeUnexpectedType, "expected dict, got %s", v.kind)
	}
	return v.dict, nil
}

// Get returns the dictionary entry for key, or nil.
func (v *Value) Get(key string) *Value {
	if v.kind != ValueDict {
		return nil
	}
	return v.dict[key]
}

// Set stores a dictionary entry. It panics on a non-dict value.
func (v *Value) Set(key string, val *Value) {
	if v.kind != ValueDict {
		panic("bencode: Set on non-dict value")
	}
	v.dict[key] = val
}

// Append adds an element to a list. It panics on a non-list value.
func (v *Value) Append(val *Value) {
	if v.kind != ValueList {
		panic("bencode: Append on non-list value")
	}
	v.list = append(v.list, val)
}

// Len returns the number of elements of a list or dict, 0 otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case ValueList:
		return len(v.list)
	case ValueDict:
		return len(v.dict)
	default:
		return 0
	}
}

// Equal reports deep equality.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case ValueInteger:
		return v.integer == other.integer
	case ValueList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case ValueDict:
		if len(v.dict) != len(other.dict) {
			return false
		}
		for k, val := range v.dict {
			if !val.Equal(other.dict[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// MaxBencodeDepth returns the actual nesting depth of this tree:
// atoms are 0, a container is one more than its deepest member.
func (v *Value) MaxBencodeDepth() int {
	switch v.kind {
	case ValueList:
		depth := 1
		for _, elem := range v.list {
			if d := elem.MaxBencodeDepth() + 1; d > depth {
				depth = d
			}
		}
		return depth
	case ValueDict:
		depth := 1
		for _, elem := range v.dict {
			if d := elem.MaxBencodeDepth() + 1; d > depth {
				depth = d
			}
		}
		return depth
	default:
		return 0
	}
}

// MarshalBencode writes the value in canonical form. Dictionary
// entries are emitted in ascending key order.
func (v *Value) MarshalBencode(e *SingleItemEncoder) error {
	switch v.kind {
	case ValueBytes:
		return e.EmitBytes(v.bytes)
	case ValueInteger:
		return e.EmitInt(v.integer)
	case ValueList:
		return e.EmitList(func(enc *Encoder) error {
			for _, elem := range v.list {
				if err := enc.EmitWith(elem.MarshalBencode); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return e.EmitDict(func(d *DictEncoder) error {
			keys := make([]string, 0, len(v.dict))
			for k := range v.dict {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				elem := v.dict[k]
				if err := d.EmitPairWith([]byte(k), elem.MarshalBencode); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// DecodeValue reconstructs an owned Value from a decoded Object,
// consuming it fully.
func DecodeValue(obj *Object) (*Value, error) {
	switch obj.Kind() {
	case TokenString:
		b, _ := obj.AsBytes()
		return BytesValue(append([]byte(nil), b...)), nil
	case TokenInteger:
		n, err := obj.AsInt64()
		if err != nil {
			return nil, err
		}
		return IntegerValue(n), nil
	case TokenList:
		list, _ := obj.AsList()
		out := ListValue()
		for {
			elem, err := list.NextObject()
			if err != nil {
				return nil, err
			}
			if elem == nil {
				return out, nil
			}
			val, err := DecodeValue(elem)
			if err != nil {
				return nil, err
			}
			out.list = append(out.list, val)
		}
	default:
		dict, _ := obj.AsDict()
		out := DictValue()
		for {
			key, elem, err := dict.NextPair()
			if err != nil {
				return nil, err
			}
			if elem == nil {
				return out, nil
			}
			val, err := DecodeValue(elem)
			if err != nil {
				return nil, err
			}
			out.dict[string(key)] = val
		}
	}
}

// UnmarshalBencode replaces v with the value decoded from obj.
func (v *Value) UnmarshalBencode(obj *Object) error {
	decoded, err := DecodeValue(obj)
	if err != nil {
		return err
	}
	*v = *decoded
	return nil
}

// ParseValue decodes exactly one value from data. Trailing bytes are
// rejected with CodeMultipleValues.
func ParseValue(data []byte) (*Value, error) {
	dec := NewDecoder(data)
	obj, err := dec.NextObject()
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, newError(CodeUnexpectedEOF, "no value in input")
	}
	v, err := DecodeValue(obj)
	if err != nil {
		return nil, err
	}
	if _, err := dec.NextObject(); err != nil {
		return nil, err
	}
	return v, nil
}
