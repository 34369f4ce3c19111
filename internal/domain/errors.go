package domain

import "errors"

var (
	// ErrInvalidSymbol indicates a missing, empty, or non-alphabetic stock symbol
	ErrInvalidSymbol = errors.New("invalid stock symbol")

	// ErrUpstreamUnavailable indicates the price source was unreachable or
	// returned a malformed response
	ErrUpstreamUnavailable = errors.New("stock price source unavailable")
)
