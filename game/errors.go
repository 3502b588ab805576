package game

import "errors"

var (
	// ErrInvalidInput is returned for inputs that must not reach the hash formula.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidTransition = errors.New("invalid round phase transition")
)
