package payroll

import "errors"

var (
	ErrInvalidPayPolicy = errors.New("invalid pay policy")
)
