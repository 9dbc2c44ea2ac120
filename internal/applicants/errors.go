package applicants

import "errors"

var (
	ErrNotFound     = errors.New("applicant not found")
	ErrInvalidInput = errors.New("invalid input")
)
