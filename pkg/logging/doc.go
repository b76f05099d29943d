// Package logging builds the slog loggers used across httpstub. The
// interceptor is silent by default (Nop); tests that need to see resolution
// decisions pass a logger built with New at debug level.
package logging
