package bencode

import "strconv"

// Object is a view over one decoded value. Scalars expose their
// payload directly; containers expose a sub-decoder that shares the
// parent's cursor and tracker, so an Object must be consumed before
// the parent advances (the decoder drains a left-behind Object
// automatically).
type Object struct {
	kind TokenKind
	str  []byte
	num  string
	list *ListDecoder
	dict *DictDecoder
}

// BytesObject wraps a raw byte string in an Object. Useful when
// feeding dictionary keys back through an Unmarshaler.
func BytesObject(b []byte) *Object {
	return &Object{kind: TokenString, str: b}
}

// Kind returns which variant this object holds.
func (o *Object) Kind() TokenKind {
	return o.kind
}

func (o *Object) typeError(expected string) *Error {
	return newError(CodeUnexpectedType, "expected %s, got %s", expected, o.kind)
}

// AsBytes returns the byte string payload. Any other variant reports
// CodeUnexpectedType.
func (o *Object) AsBytes() ([]byte, error) {
	if o.kind != TokenString {
		return nil, o.typeError("String")
	}
	return o.str, nil
}

// AsString returns the byte string payload as a string.
func (o *Object) AsString() (string, error) {
	b, err := o.AsBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AsIntegerDigits returns the validated digit slice of an integer
// without parsing it, so callers may route it into a bignum.
func (o *Object) AsIntegerDigits() (string, error) {
	if o.kind != TokenInteger {
		return "", o.typeError("Integer")
	}
	return o.num, nil
}

// AsInt64 parses the integer payload as an int64.
func (o *Object) AsInt64() (int64, error) {
	digits, err := o.AsIntegerDigits()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(digits, 10, 64)
	if perr != nil {
		return 0, newError(CodeUnexpectedType, "integer %s does not fit in int64", digits)
	}
	return n, nil
}

// AsUint64 parses the integer payload as a uint64.
func (o *Object) AsUint64() (uint64, error) {
	digits, err := o.AsIntegerDigits()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseUint(digits, 10, 64)
	if perr != nil {
		return 0, newError(CodeUnexpectedType, "integer %s does not fit in uint64", digits)
	}
	return n, nil
}

// AsList returns the list sub-decoder.
func (o *Object) AsList() (*ListDecoder, error) {
	if o.kind != TokenList {
		return nil, o.typeError("List")
	}
	return o.list, nil
}

// AsDict returns the dictionary sub-decoder.
func (o *Object) AsDict() (*DictDecoder, error) {
	if o.kind != TokenDict {
		return nil, o.typeError("Dict")
	}
	return o.dict, nil
}

// drain consumes whatever is left of a container object so the parent
// can advance past it. Scalars need no draining.
func (o *Object) drain() error {
	switch o.kind {
	case TokenList:
		return o.list.ConsumeAll()
	case TokenDict:
		return o.dict.ConsumeAll()
	default:
		return nil
	}
}
