package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("match is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidRoll      = errors.New("roll value is out of range")
	ErrInvalidSide      = errors.New("unknown side")
	ErrMatchNotFound    = errors.New("match not found")
	ErrConcurrentUpdate = errors.New("match was updated concurrently")
)
