package errors

import "errors"

var (
	ErrInvalidConfigInput = errors.New("royalty config input is invalid")
	ErrInvalidSplit       = errors.New("royalty percentages exceed 100 percent")
	ErrConfigExists       = errors.New("royalty config already exists for collection")
	ErrConfigNotFound     = errors.New("royalty config not found")
)
