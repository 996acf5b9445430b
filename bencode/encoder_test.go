package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoder_Scalars(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	require.NoError(enc.EmitInt(42))
	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("i42e"), out)

	enc = NewEncoder()
	require.NoError(enc.EmitInt(-1))
	out, err = enc.Finish()
	require.NoError(err)
	require.Equal([]byte("i-1e"), out)

	enc = NewEncoder()
	require.NoError(enc.EmitBytes([]byte{1, 2, 3}))
	out, err = enc.Finish()
	require.NoError(err)
	require.Equal([]byte("3:\x01\x02\x03"), out)

	enc = NewEncoder()
	require.NoError(enc.EmitString(""))
	out, err = enc.Finish()
	require.NoError(err)
	require.Equal([]byte("0:"), out)
}

func TestEncoder_NestedContainers(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitDict(func(d *DictEncoder) error {
		if err := d.EmitPairWith([]byte("bar"), func(e *SingleItemEncoder) error {
			return e.EmitInt(25)
		}); err != nil {
			return err
		}
		return d.EmitPairWith([]byte("foo"), func(e *SingleItemEncoder) error {
			return e.EmitList(func(l *Encoder) error {
				if err := l.EmitString("baz"); err != nil {
					return err
				}
				return l.EmitString("qux")
			})
		})
	})
	require.NoError(err)

	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("d3:bari25e3:fool3:baz3:quxee"), out)
}

func TestEncoder_SortedDictExample(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitDict(func(d *DictEncoder) error {
		if err := d.EmitPair([]byte("counter"), IntegerValue(0)); err != nil {
			return err
		}
		return d.EmitPair([]byte("label"), StringValue("Example"))
	})
	require.NoError(err)

	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("d7:counteri0e5:label7:Examplee"), out)
}

func TestEncoder_List(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitList(func(l *Encoder) error {
		for _, s := range []string{"foo", "bar", "baz"} {
			if err := l.EmitString(s); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(err)

	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("l3:foo3:bar3:baze"), out)
}

func TestEncoder_UnsortedKeysAreRejected(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	var pairErr error
	err := enc.EmitDict(func(d *DictEncoder) error {
		if err := d.EmitPair([]byte("b"), IntegerValue(1)); err != nil {
			return err
		}
		pairErr = d.EmitPair([]byte("a"), IntegerValue(2))
		return pairErr
	})
	require.Equal(CodeUnsortedKeys, CodeOf(pairErr))
	require.Equal(CodeUnsortedKeys, CodeOf(err))

	// The encoder is left failed; nothing further is accepted.
	require.Equal(CodeUnsortedKeys, CodeOf(enc.EmitInt(1)))
	_, err = enc.Finish()
	require.Equal(CodeUnsortedKeys, CodeOf(err))
}

func TestEncoder_DuplicateKeysAreRejected(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitDict(func(d *DictEncoder) error {
		if err := d.EmitPair([]byte("a"), IntegerValue(1)); err != nil {
			return err
		}
		return d.EmitPair([]byte("a"), IntegerValue(2))
	})
	require.Equal(CodeUnsortedKeys, CodeOf(err))
}

func TestEncoder_EmitAndSortDict(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitAndSortDict(func(d *SortingDictEncoder) error {
		if err := d.EmitPair([]byte("b"), IntegerValue(2)); err != nil {
			return err
		}
		return d.EmitPair([]byte("a"), StringValue("foo"))
	})
	require.NoError(err)

	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("d1:a3:foo1:bi2ee"), out)
}

func TestEncoder_EmitAndSortDictDuplicate(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitAndSortDict(func(d *SortingDictEncoder) error {
		if err := d.EmitPair([]byte("a"), IntegerValue(1)); err != nil {
			return err
		}
		return d.EmitPair([]byte("a"), IntegerValue(2))
	})
	require.Equal(CodeUnsortedKeys, CodeOf(err))

	_, err = enc.Finish()
	require.Error(err)
}

func TestEncoder_EmitAndSortDictNested(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitAndSortDict(func(d *SortingDictEncoder) error {
		if err := d.EmitPairWith([]byte("zz"), func(e *SingleItemEncoder) error {
			return e.EmitList(func(l *Encoder) error {
				return l.EmitInt(1)
			})
		}); err != nil {
			return err
		}
		return d.EmitPair([]byte("aa"), StringValue("x"))
	})
	require.NoError(err)

	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("d2:aa1:x2:zzli1eee"), out)
}

func TestEncoder_CallbackMustEmit(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	err := enc.EmitWith(func(*SingleItemEncoder) error { return nil })
	require.Error(err)
}

func TestEncoder_FinishIncomplete(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	_, err := enc.Finish()
	require.Equal(CodeUnexpectedEOF, CodeOf(err))

	enc = NewEncoder()
	require.NoError(enc.emitToken(Token{Kind: TokenList}))
	_, err = enc.Finish()
	require.Equal(CodeUnexpectedEOF, CodeOf(err))
}

func TestEncoder_RejectsSecondTopLevelValue(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder()
	require.NoError(enc.EmitInt(1))
	err := enc.EmitInt(2)
	require.Equal(CodeMultipleValues, CodeOf(err))
}

func TestEncoder_InvalidDigitsPassthrough(t *testing.T) {
	require := require.New(t)

	for _, digits := range []string{"", "-", "-0", "01", "00", "+1", "1a"} {
		enc := NewEncoder()
		err := enc.EmitDigits(digits)
		require.Equalf(CodeInvalidInteger, CodeOf(err), "digits %q", digits)
	}

	enc := NewEncoder()
	require.NoError(enc.EmitDigits("18446744073709551616"))
	out, err := enc.Finish()
	require.NoError(err)
	require.Equal([]byte("i18446744073709551616e"), out)
}

func TestEncoder_DepthBudget(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder().WithMaxDepth(1)
	err := enc.EmitList(func(l *Encoder) error {
		return l.EmitList(func(*Encoder) error { return nil })
	})
	require.Equal(CodeNestingTooDeep, CodeOf(err))
}

func TestEncoder_CallbackErrorClosesContainer(t *testing.T) {
	require := require.New(t)

	boom := newError(CodeIO, "payload source failed")
	enc := NewEncoder()
	err := enc.EmitList(func(l *Encoder) error {
		if err := l.EmitInt(1); err != nil {
			return err
		}
		return boom
	})
	require.Equal(CodeIO, CodeOf(err))

	// The failure latched; the half-open structure can never be
	// finished into output.
	_, err = enc.Finish()
	require.Equal(CodeIO, CodeOf(err))
}
