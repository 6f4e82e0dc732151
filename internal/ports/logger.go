package ports

import "context"

// Logger is the leveled logging contract the adapters and the backtest
// service write through. Keeping it an interface lets deployments swap
// the stdlib-backed implementation for a structured backend without
// touching call sites.
type Logger interface {
	// Debug logs a message at Debug level.
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	// Info logs a message at Info level.
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	// Warn logs a message at Warning level.
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs an error together with a message at Error level.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
