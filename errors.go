package kdsphere

import "errors"

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidEps is returned when the approximation tolerance is negative.
	ErrInvalidEps = errors.New("eps must be non-negative")

	// ErrInvalidRadius is returned when a search radius is negative.
	ErrInvalidRadius = errors.New("search radius must be non-negative")
)
