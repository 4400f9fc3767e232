package scoreparse

import (
	"errors"
	"fmt"
)

// Kind separates rejections the submitter can fix from failures that break a rule's
// own assumptions about the pasted text.
type Kind int

const (
	KindSoft Kind = iota
	KindHard
)

func (k Kind) String() string {
	if k == KindHard {
		return "hard"
	}
	return "soft"
}

var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrOutOfRange    = errors.New("text too short for score format")
	ErrNoScoreLine   = errors.New("no score line found in game text")
	ErrUnknownTag    = errors.New("unknown format tag")
)

// ParseError is returned for every rejected message.
type ParseError struct {
	Kind   Kind
	Game   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Game == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Game, e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func soft(game string, err error, reason string) error {
	if reason == "" {
		reason = err.Error()
	}
	return &ParseError{Kind: KindSoft, Game: game, Reason: reason, Err: err}
}

func hard(game string, err error) error {
	return &ParseError{Kind: KindHard, Game: game, Reason: err.Error(), Err: err}
}

// IsHard reports whether err is a hard parse failure.
func IsHard(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == KindHard
}

// Reason extracts the human readable reason of a parse failure.
func Reason(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
