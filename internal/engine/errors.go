package engine

import "errors"

var (
	// ErrNothingToShow means a range currently has no eligible items, e.g. the
	// review range when nothing was missed. It is a good outcome.
	ErrNothingToShow = errors.New("nothing to show")
	// ErrEmptyPool means a static range has no items at all
	ErrEmptyPool = errors.New("range has no items")
	// ErrUnknownRange means the range key is not in the corpus
	ErrUnknownRange = errors.New("unknown range")
	// ErrInvalidInput covers bad display names and answers outside the presented choices
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoPendingSession means an answer arrived with no question open
	ErrNoPendingSession = errors.New("no pending question")
)
