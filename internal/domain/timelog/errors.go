package timelog

import "errors"

var (
	ErrTimeLogNotFound = errors.New("time log not found")
	ErrNothingToReport = errors.New("there are no visible records to print")
	ErrEmptyPhoto      = errors.New("photo is required")
)
