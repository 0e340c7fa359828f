package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrNoOpenTrial   = errors.New("no open trial")
	ErrNoOpenStroke  = errors.New("no open stroke")
	ErrGazeUnavail   = errors.New("gaze estimator unavailable")
	ErrNothingToSave = errors.New("session has no trials")
)
