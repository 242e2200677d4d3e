package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushConvertsLongBuffer(t *testing.T) {
	s := State{Unfinished: "ab", Pending: "1f600"}
	next, res := s.Flush()
	assert.Equal(t, Converted, res.Outcome)
	assert.Equal(t, '😀', res.Char)
	assert.Equal(t, State{Unfinished: "ab😀"}, next)
}

func TestFlushWaitsForFourthDigit(t *testing.T) {
	s := State{Unfinished: "ab", Pending: "1f6"}
	next, res := s.Flush()
	assert.Equal(t, Idle, res.Outcome)
	assert.Equal(t, s, next)
}

func TestFlushKeepsInvalidBuffer(t *testing.T) {
	tests := []struct {
		name    string
		pending string
	}{
		{"not hex", "zzzz"},
		{"surrogate", "d800"},
		{"beyond unicode", "110000"},
		{"nul", "0000"},
		{"bell", "0007"},
		{"c1 control", "0085"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Unfinished: "x", Pending: tt.pending}
			next, res := s.Flush()
			assert.Equal(t, Invalid, res.Outcome)
			assert.Error(t, res.Err)
			assert.Equal(t, s, next)
		})
	}
}

func TestStartFlushesThenReplacesPending(t *testing.T) {
	s := State{Pending: "0041"}
	next, res, err := s.Start("2")
	require.NoError(t, err)
	assert.Equal(t, Converted, res.Outcome)
	assert.Equal(t, State{Unfinished: "A", Pending: "2"}, next)

	next, err = next.Continue("6")
	require.NoError(t, err)
	next, err = next.Continue("3a")
	require.NoError(t, err)
	assert.Equal(t, "263a", next.Pending)

	name, done, res, err := next.Finish()
	require.NoError(t, err)
	assert.Equal(t, Converted, res.Outcome)
	assert.Equal(t, "A☺", name)
	assert.Equal(t, State{}, done)
}

func TestStartOverInvalidBufferDropsIt(t *testing.T) {
	s := State{Unfinished: "a", Pending: "qqqq"}
	next, res, err := s.Start("1")
	require.NoError(t, err)
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, State{Unfinished: "a", Pending: "1"}, next)
}

func TestLetterAppends(t *testing.T) {
	s := State{Unfinished: "Ad"}
	next, res, err := s.Letter("a")
	require.NoError(t, err)
	assert.Equal(t, Idle, res.Outcome)
	assert.Equal(t, "Ada", next.Unfinished)

	// A short pending buffer is neither converted nor cleared.
	s = State{Unfinished: "Ad", Pending: "41"}
	next, res, err = s.Letter("a")
	require.NoError(t, err)
	assert.Equal(t, Idle, res.Outcome)
	assert.Equal(t, State{Unfinished: "Ada", Pending: "41"}, next)
}

func TestLimits(t *testing.T) {
	full := State{Unfinished: strings.Repeat("x", MaxUsernameRunes)}
	_, _, err := full.Letter("y")
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = State{Pending: "1234567"}.Continue("89")
	assert.ErrorIs(t, err, ErrTooLong)

	_, _, err = State{}.Letter("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	next, res := State{Unfinished: full.Unfinished, Pending: "0041"}.Flush()
	assert.Equal(t, Invalid, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrTooLong)
	assert.Equal(t, "0041", next.Pending)
}

func TestFinishRejectsEmptyName(t *testing.T) {
	s := State{Pending: "zz"}
	_, next, _, err := s.Finish()
	assert.ErrorIs(t, err, ErrEmptyUsername)
	assert.Equal(t, s, next)
}

func TestFinishKeepsInvalidPending(t *testing.T) {
	s := State{Unfinished: "Bo", Pending: "xxxx"}
	name, next, res, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, "Bo", name)
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, State{Pending: "xxxx"}, next)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "converted", Converted.String())
	assert.Equal(t, "invalid", Invalid.String())
}
