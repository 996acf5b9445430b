package bencode

import "bytes"

// DefaultMaxDepth is the nesting budget used when none is configured.
const DefaultMaxDepth = 2048

type frameKind uint8

const (
	frameList frameKind = iota
	// frameDictKey: inside a dictionary, expecting a key.
	frameDictKey
	// frameDictValue: inside a dictionary, a key has been observed and
	// its value is expected next.
	frameDictValue
)

// frame is one entry on the tracker stack, describing the state of an
// open container.
type frame struct {
	kind frameKind
	// lastKey holds the most recently observed key of a dictionary
	// frame, so sorting can be validated. Unset before the first key.
	lastKey []byte
	hasKey  bool
}

// StateTracker validates a token sequence against the bencode grammar
// and the canonical-order rules. Both the encoder and the decoder
// funnel every token through a tracker, so the same rules apply in
// both directions.
//
// A tracker is single-session: create one per encode or decode, feed
// it tokens with Observe, and finish with ObserveEOF. The first
// failure latches; every later call reports it again.
type StateTracker struct {
	stack     []frame
	maxDepth  int
	rootDone  bool
	streaming bool
	failed    *Error
}

// NewStateTracker returns a tracker with the default depth budget.
func NewStateTracker() *StateTracker {
	return &StateTracker{maxDepth: DefaultMaxDepth}
}

// SetMaxDepth sets the depth budget. Depth counts open containers;
// the implicit root is excluded.
func (s *StateTracker) SetMaxDepth(n int) {
	s.maxDepth = n
}

// RemainingDepth returns how many more containers may be opened at
// the current position.
func (s *StateTracker) RemainingDepth() int {
	return s.maxDepth - len(s.stack)
}

// SetStreaming configures whether the tracker accepts more than one
// top-level value. The canonical contract is a single value; readers
// of concatenated streams opt in explicitly.
func (s *StateTracker) SetStreaming(streaming bool) {
	s.streaming = streaming
}

// Complete reports whether exactly one top-level value has been
// observed and every container is closed.
func (s *StateTracker) Complete() bool {
	return s.rootDone && len(s.stack) == 0 && s.failed == nil
}

// CheckError returns the latched failure, if any.
func (s *StateTracker) CheckError() error {
	if s.failed != nil {
		return s.failed
	}
	return nil
}

func (s *StateTracker) latch(err *Error) error {
	if s.failed == nil {
		s.failed = err
	}
	return s.failed
}

// Latch records err as the tracker's sticky failure if it is a
// *Error and no failure is latched yet, then returns err. Non-nil
// errors of other types are returned untouched so user callback
// failures keep their identity; if nothing is latched yet, the
// tracker latches a CodeUnexpectedToken error wrapping them.
func (s *StateTracker) Latch(err error) error {
	if err == nil {
		return s.CheckError()
	}
	if be, ok := err.(*Error); ok {
		s.latch(be)
	} else if s.failed == nil {
		s.failed = newError(CodeUnexpectedToken, "aborted: %v", err)
	}
	return err
}

// Observe validates one token against the current structural state
// and advances it. A rejected token latches the tracker.
func (s *StateTracker) Observe(tok Token) error {
	if s.failed != nil {
		return s.failed
	}

	if tok.Kind == TokenInteger && !validDigits(tok.Num) {
		return s.latch(newError(CodeInvalidInteger, "invalid integer %q", tok.Num))
	}

	if len(s.stack) == 0 {
		return s.observeAtRoot(tok)
	}

	top := &s.stack[len(s.stack)-1]
	switch top.kind {
	case frameList:
		if tok.Kind == TokenEnd {
			s.pop()
			return nil
		}
		return s.observeValue(tok)

	case frameDictKey:
		switch tok.Kind {
		case TokenEnd:
			s.pop()
			return nil
		case TokenString:
			if top.hasKey && bytes.Compare(top.lastKey, tok.Str) >= 0 {
				return s.latch(newError(CodeUnsortedKeys, "key %q not greater than %q", tok.Str, top.lastKey))
			}
			top.lastKey = append(top.lastKey[:0], tok.Str...)
			top.hasKey = true
			top.kind = frameDictValue
			return nil
		default:
			return s.latch(newError(CodeUnexpectedToken, "dict keys must be strings, got %s", tok.Kind))
		}

	case frameDictValue:
		if tok.Kind == TokenEnd {
			return s.latch(newError(CodeMissingValue, "dict value missing for key %q", top.lastKey))
		}
		top.kind = frameDictKey
		return s.observeValue(tok)
	}
	return nil
}

// observeAtRoot handles a token arriving with no open container.
func (s *StateTracker) observeAtRoot(tok Token) error {
	if tok.Kind == TokenEnd {
		return s.latch(newError(CodeUnexpectedToken, "end of container at top level"))
	}
	if s.rootDone && !s.streaming {
		return s.latch(newError(CodeMultipleValues, "token after the top-level value"))
	}
	return s.observeValue(tok)
}

// observeValue handles a value token in a position where any value is
// legal. The caller has already adjusted the enclosing frame.
func (s *StateTracker) observeValue(tok Token) error {
	switch tok.Kind {
	case TokenList:
		return s.push(frame{kind: frameList})
	case TokenDict:
		return s.push(frame{kind: frameDictKey})
	default:
		if len(s.stack) == 0 {
			s.rootDone = true
		}
		return nil
	}
}

func (s *StateTracker) push(f frame) error {
	if len(s.stack) >= s.maxDepth {
		return s.latch(newError(CodeNestingTooDeep, "nesting deeper than %d", s.maxDepth))
	}
	s.stack = append(s.stack, f)
	return nil
}

func (s *StateTracker) pop() {
	s.stack = s.stack[:len(s.stack)-1]
	if len(s.stack) == 0 {
		s.rootDone = true
	}
}

// ObserveEOF checks that no container is left open at end of stream.
// It is idempotent and does not require a value to have been seen;
// callers that need one (Encoder.Finish) check Complete as well.
func (s *StateTracker) ObserveEOF() error {
	if s.failed != nil {
		return s.failed
	}
	if len(s.stack) != 0 {
		return s.latch(newError(CodeUnexpectedEOF, "%d unclosed containers", len(s.stack)))
	}
	return nil
}
