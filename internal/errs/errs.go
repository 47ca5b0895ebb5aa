// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package errs holds the error kinds every stage of the analysis reports with.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// malformed or missing source data
	ErrInput = errors.New("input error")
	// not enough overlapping history across the sources
	ErrAlignment = errors.New("alignment error")
	// a statistical test is undefined for the data (e.g. zero variance)
	ErrFit = errors.New("fit error")
	// rank-deficient regression, non-finite inputs, lag order too large
	ErrEstimation = errors.New("estimation error")
	// MAPE with an actual value of exactly zero
	ErrDivisionByZero = errors.New("division by zero")
)

// Error carries the kind, the stage that failed and a description of what it was working on.
type Error struct {
	Kind  error
	Stage string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, stage, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Msg: fmt.Sprintf(format, args...)}
}

func Input(stage, format string, args ...any) *Error {
	return newError(ErrInput, stage, format, args...)
}

func Alignment(stage, format string, args ...any) *Error {
	return newError(ErrAlignment, stage, format, args...)
}

func Fit(stage, format string, args ...any) *Error {
	return newError(ErrFit, stage, format, args...)
}

func Estimation(stage, format string, args ...any) *Error {
	return newError(ErrEstimation, stage, format, args...)
}

func DivisionByZero(stage, format string, args ...any) *Error {
	return newError(ErrDivisionByZero, stage, format, args...)
}

// Wrap attaches a kind and stage to err. An err that already carries a stage
// keeps it; only the message is prefixed.
func Wrap(kind error, stage string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Stage != "" {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return &Error{Kind: kind, Stage: stage, Msg: fmt.Sprintf(format, args...), Err: err}
}

// StageOf returns the stage recorded on err, or "" if there is none.
func StageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
