package bencode

import "fmt"

// ErrorCode classifies a codec failure. Codes are stable and safe to
// switch on; messages are for humans.
type ErrorCode string

const (
	// CodeSyntax: malformed byte stream (illegal leading byte, bad
	// length digits, unexpected character inside a token).
	CodeSyntax ErrorCode = "SYNTAX"
	// CodeUnexpectedEOF: input ended mid-token or mid-container, or an
	// encoder was finished with open containers.
	CodeUnexpectedEOF ErrorCode = "UNEXPECTED_EOF"
	// CodeNestingTooDeep: the depth budget was exceeded.
	CodeNestingTooDeep ErrorCode = "NESTING_TOO_DEEP"
	// CodeUnsortedKeys: a dictionary key was not strictly greater than
	// its predecessor. Duplicates report this code as well.
	CodeUnsortedKeys ErrorCode = "UNSORTED_KEYS"
	// CodeMissingValue: a dictionary ended after a key with no value.
	CodeMissingValue ErrorCode = "MISSING_VALUE"
	// CodeUnexpectedToken: a token kind that is illegal in the current
	// frame, e.g. an integer where a dictionary key is required.
	CodeUnexpectedToken ErrorCode = "UNEXPECTED_TOKEN"
	// CodeInvalidInteger: integer digits violate the minimal form
	// 0 | -?[1-9][0-9]*.
	CodeInvalidInteger ErrorCode = "INVALID_INTEGER"
	// CodeMultipleValues: a token arrived after the single top-level
	// value was already complete.
	CodeMultipleValues ErrorCode = "MULTIPLE_TOP_LEVEL_VALUES"
	// CodeUnexpectedType: a typed accessor disagreed with the Object
	// variant.
	CodeUnexpectedType ErrorCode = "UNEXPECTED_TYPE"
	// CodeMissingField: a user type reconstruction did not find a
	// required dictionary field.
	CodeMissingField ErrorCode = "MISSING_FIELD"
	// CodeUnexpectedField: a user type reconstruction found a field it
	// does not know.
	CodeUnexpectedField ErrorCode = "UNEXPECTED_FIELD"
	// CodeIO: reading the underlying payload failed. Only produced
	// when the tokenizer is fed from a streaming source.
	CodeIO ErrorCode = "IO"
)

// Error is the failure type for every operation in this package.
// Errors are deterministic in the input and latch: once an encoder or
// decoder fails, all further operations on it return the same error.
type Error struct {
	Code    ErrorCode
	Message string
	// Offset is the byte position in the input where the error was
	// detected, or -1 when no position is recorded: encoder-side errors
	// and errors raised by the StateTracker (also while decoding).
	Offset int
	// Context is a dotted breadcrumb path accumulated while decoding
	// nested user types, e.g. "info.files.length".
	Context string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Context)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("bencode: %s at offset %d", msg, e.Offset)
	}
	return "bencode: " + msg
}

// WithContext returns a copy of the error with name prepended to the
// breadcrumb path. Nested annotations concatenate with dots, outermost
// first.
func (e *Error) WithContext(name string) *Error {
	dup := *e
	if dup.Context == "" {
		dup.Context = name
	} else {
		dup.Context = name + "." + dup.Context
	}
	return &dup
}

// Context annotates err with a breadcrumb if it is a *Error, and
// returns err unchanged otherwise. Use it when propagating errors out
// of a nested UnmarshalBencode.
func Context(err error, name string) error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*Error); ok {
		return be.WithContext(name)
	}
	return err
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a
// *Error from this package.
func CodeOf(err error) ErrorCode {
	if be, ok := err.(*Error); ok {
		return be.Code
	}
	return ""
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: -1}
}

func newErrorAt(code ErrorCode, offset int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// errUnexpected builds the standard syntax error for a stray byte.
func errUnexpected(expected string, got byte, offset int) *Error {
	return newErrorAt(CodeSyntax, offset, "expected %s, got %q", expected, got)
}

// ErrMissingField returns a CodeMissingField error naming the field.
func ErrMissingField(name string) *Error {
	return newError(CodeMissingField, "missing field: %s", name)
}

// ErrUnexpectedField returns a CodeUnexpectedField error naming the field.
func ErrUnexpectedField(name string) *Error {
	return newError(CodeUnexpectedField, "unexpected field: %s", name)
}
