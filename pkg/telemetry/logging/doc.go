// Package logging provides structured logging for the blackout tool, built
// on log/slog with configurable level and output format.
package logging
