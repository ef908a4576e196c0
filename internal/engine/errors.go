package engine

import (
	"errors"

	"github.com/tartampluch/go-dateselect/internal/config"
)

var (
	// ErrInvalidInput is returned when Write or a bound setter receives a malformed value.
	ErrInvalidInput = errors.New(config.ErrInvalidInput)

	// ErrInvalidComparison is returned when a date comparison is missing an operand.
	ErrInvalidComparison = errors.New(config.ErrInvalidComparison)
)
