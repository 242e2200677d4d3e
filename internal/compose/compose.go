// Package compose builds usernames one step at a time. Artists either append
// literal letters or type a unicode code point as hex digits; the hex buffer
// is converted once it holds more than three characters and the next step
// arrives.
package compose

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxUsernameRunes matches the width of the username columns.
	MaxUsernameRunes = 50
	// MaxPendingLen is long enough for any code point written in hex.
	MaxPendingLen = 8

	convertThreshold = 3
)

var (
	ErrTooLong       = errors.New("username is too long")
	ErrEmptyInput    = errors.New("input is empty")
	ErrEmptyUsername = errors.New("username is empty")
)

// State is the in-progress part of an artist's username.
type State struct {
	Unfinished string
	Pending    string
}

type Outcome int

const (
	// Idle means nothing was ready to convert.
	Idle Outcome = iota
	// Converted means the pending buffer became a character.
	Converted
	// Invalid means the pending buffer could not be converted and was kept.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case Invalid:
		return "invalid"
	default:
		return "idle"
	}
}

// Result reports what happened to the pending unicode buffer.
type Result struct {
	Outcome Outcome
	Char    rune
	Err     error
}

// Flush converts the pending buffer if it is long enough.
func (s State) Flush() (State, Result) {
	if len(s.Pending) <= convertThreshold {
		return s, Result{Outcome: Idle}
	}
	r, err := decodeCodePoint(s.Pending)
	if err != nil {
		return s, Result{Outcome: Invalid, Err: err}
	}
	next := State{Unfinished: s.Unfinished + string(r)}
	if utf8.RuneCountInString(next.Unfinished) > MaxUsernameRunes {
		return s, Result{Outcome: Invalid, Err: ErrTooLong}
	}
	return next, Result{Outcome: Converted, Char: r}
}

// Start flushes any pending code point and begins a new one with letter.
func (s State) Start(letter string) (State, Result, error) {
	if letter == "" {
		return s, Result{}, ErrEmptyInput
	}
	if len(letter) > MaxPendingLen {
		return s, Result{}, ErrTooLong
	}
	next, res := s.Flush()
	next.Pending = letter
	return next, res, nil
}

// Continue appends letter to the pending code point.
func (s State) Continue(letter string) (State, error) {
	if letter == "" {
		return s, ErrEmptyInput
	}
	if len(s.Pending)+len(letter) > MaxPendingLen {
		return s, ErrTooLong
	}
	s.Pending += letter
	return s, nil
}

// Letter flushes any pending code point and appends letter verbatim.
func (s State) Letter(letter string) (State, Result, error) {
	if letter == "" {
		return s, Result{}, ErrEmptyInput
	}
	next, res := s.Flush()
	if utf8.RuneCountInString(next.Unfinished)+utf8.RuneCountInString(letter) > MaxUsernameRunes {
		return s, Result{}, ErrTooLong
	}
	next.Unfinished += letter
	return next, res, nil
}

// Finish flushes and returns the completed username. The returned state has
// an empty Unfinished buffer; an unconvertible pending buffer is kept.
func (s State) Finish() (string, State, Result, error) {
	next, res := s.Flush()
	if next.Unfinished == "" {
		return "", s, res, ErrEmptyUsername
	}
	return next.Unfinished, State{Pending: next.Pending}, res, nil
}

func decodeCodePoint(hex string) (rune, error) {
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a hexadecimal code point", hex)
	}
	r := rune(value)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("U+%X is not a valid character", value)
	}
	if unicode.IsControl(r) {
		return 0, fmt.Errorf("U+%04X is a control character", value)
	}
	return r, nil
}
