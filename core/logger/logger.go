package logger

// Logger exposes logging methods for common severity levels. The pipeline
// and its adapters depend on this interface only.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Errorw logs a failure with structured fields.
	Errorw(msg string, fields map[string]any)
}
