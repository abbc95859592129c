package review

import "errors"

var (
	// ErrEmptyPool is returned when a session is started without words.
	ErrEmptyPool = errors.New("word pool is empty")
	// ErrInvalidState is returned when an input arrives in a phase that does not accept it.
	ErrInvalidState = errors.New("invalid session state")
)
