// Package logging provides slog-based structured logging with a human
// oriented console format and a machine oriented JSON format, plus helpers
// for attaching standardized pipeline fields (stage, source, run id) through
// context.
package logging
