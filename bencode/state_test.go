package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strTok(s string) Token { return Token{Kind: TokenString, Str: []byte(s)} }
func numTok(d string) Token { return Token{Kind: TokenInteger, Num: d} }
func listTok() Token        { return Token{Kind: TokenList} }
func dictTok() Token        { return Token{Kind: TokenDict} }
func endTok() Token         { return Token{Kind: TokenEnd} }

func TestStateTracker_AcceptsCanonicalSequences(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
	}{
		{"integer", []Token{numTok("42")}},
		{"empty string", []Token{strTok("")}},
		{"empty list", []Token{listTok(), endTok()}},
		{"empty dict", []Token{dictTok(), endTok()}},
		{"nested", []Token{
			dictTok(),
			strTok("bar"), numTok("1"),
			strTok("foo"), listTok(), numTok("2"), numTok("3"), endTok(),
			endTok(),
		}},
		{"sorted keys", []Token{
			dictTok(),
			strTok("a"), numTok("0"),
			strTok("aa"), numTok("0"),
			strTok("b"), numTok("0"),
			endTok(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			tracker := NewStateTracker()
			for _, tok := range tt.tokens {
				require.NoError(tracker.Observe(tok))
			}
			require.NoError(tracker.ObserveEOF())
			require.True(tracker.Complete())
		})
	}
}

func TestStateTracker_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		code   ErrorCode
	}{
		{"end at root", []Token{endTok()}, CodeUnexpectedToken},
		{"integer as key", []Token{dictTok(), numTok("1")}, CodeUnexpectedToken},
		{"list as key", []Token{dictTok(), listTok()}, CodeUnexpectedToken},
		{"unsorted keys", []Token{dictTok(), strTok("foo"), numTok("1"), strTok("bar")}, CodeUnsortedKeys},
		{"duplicate keys", []Token{dictTok(), strTok("foo"), numTok("1"), strTok("foo")}, CodeUnsortedKeys},
		{"missing value", []Token{dictTok(), strTok("foo"), endTok()}, CodeMissingValue},
		{"second top-level value", []Token{numTok("1"), numTok("2")}, CodeMultipleValues},
		{"bad digits 01", []Token{numTok("01")}, CodeInvalidInteger},
		{"bad digits -0", []Token{numTok("-0")}, CodeInvalidInteger},
		{"bad digits empty", []Token{numTok("")}, CodeInvalidInteger},
		{"bad digits dash only", []Token{numTok("-")}, CodeInvalidInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			tracker := NewStateTracker()
			var err error
			for _, tok := range tt.tokens {
				if err = tracker.Observe(tok); err != nil {
					break
				}
			}
			require.Error(err)
			require.Equal(tt.code, CodeOf(err))
		})
	}
}

func TestStateTracker_DepthBudget(t *testing.T) {
	require := require.New(t)

	tracker := NewStateTracker()
	tracker.SetMaxDepth(2)
	require.NoError(tracker.Observe(listTok()))
	require.NoError(tracker.Observe(listTok()))
	err := tracker.Observe(listTok())
	require.Equal(CodeNestingTooDeep, CodeOf(err))

	tracker = NewStateTracker()
	tracker.SetMaxDepth(3)
	for _, tok := range []Token{listTok(), listTok(), listTok(), endTok(), endTok(), endTok()} {
		require.NoError(tracker.Observe(tok))
	}
	require.NoError(tracker.ObserveEOF())
}

func TestStateTracker_RemainingDepth(t *testing.T) {
	require := require.New(t)

	tracker := NewStateTracker()
	tracker.SetMaxDepth(10)
	require.Equal(10, tracker.RemainingDepth())
	require.NoError(tracker.Observe(listTok()))
	require.Equal(9, tracker.RemainingDepth())
	require.NoError(tracker.Observe(dictTok()))
	require.Equal(8, tracker.RemainingDepth())
	require.NoError(tracker.Observe(endTok()))
	require.Equal(9, tracker.RemainingDepth())
}

func TestStateTracker_ErrorsLatch(t *testing.T) {
	require := require.New(t)

	tracker := NewStateTracker()
	require.NoError(tracker.Observe(dictTok()))
	first := tracker.Observe(numTok("1"))
	require.Error(first)

	// Every later operation reports the same failure, with no side
	// effects.
	require.Equal(first, tracker.Observe(strTok("ok")))
	require.Equal(first, tracker.ObserveEOF())
	require.Equal(first, tracker.CheckError())
}

func TestStateTracker_EOFWithOpenContainers(t *testing.T) {
	require := require.New(t)

	tracker := NewStateTracker()
	require.NoError(tracker.Observe(listTok()))
	err := tracker.ObserveEOF()
	require.Equal(CodeUnexpectedEOF, CodeOf(err))
}

func TestStateTracker_StreamingAllowsConcatenatedValues(t *testing.T) {
	require := require.New(t)

	tracker := NewStateTracker()
	tracker.SetStreaming(true)
	require.NoError(tracker.Observe(numTok("1")))
	require.NoError(tracker.Observe(numTok("2")))
	require.NoError(tracker.ObserveEOF())
}
