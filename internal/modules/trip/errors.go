package trip

import "errors"

var (
	ErrInvalidInput    = errors.New("destination and mtop id are required")
	ErrAlreadyTracking = errors.New("trip already in progress")
	ErrNotTracking     = errors.New("no trip in progress")
	ErrEmptyRoute      = errors.New("no route data")
	ErrStorage         = errors.New("trip storage failed")
	ErrNotFound        = errors.New("trip not found")
)
