package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Backtest Specific Errors
	ErrInvalidRules     = errors.New("invalid strategy rules")
	ErrInvalidDateRange = errors.New("invalid backtest date range")

	// Data Provider Specific Errors
	ErrProviderUnavailable = errors.New("market data provider is unavailable")
	ErrRateLimited         = errors.New("API rate limit exceeded")
	ErrMalformedData       = errors.New("malformed market data received")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
