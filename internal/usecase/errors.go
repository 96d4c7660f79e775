package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrJobNotFound  = errors.New("Job not found")
	ErrInternal     = errors.New("internal error")
)
