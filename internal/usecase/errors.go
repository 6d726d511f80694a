package usecase

import "errors"

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
)
