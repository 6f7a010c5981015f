package conversion

import "github.com/sirupsen/logrus"

// Diagnostics receives non-fatal registration warnings. The registry never
// logs directly; applications inject a sink so warnings stay testable and
// independent of process-wide logging configuration.
type Diagnostics interface {
	Warnf(format string, args ...any)
}

// DiagnosticsFunc adapts a plain function to the Diagnostics interface.
type DiagnosticsFunc func(format string, args ...any)

func (f DiagnosticsFunc) Warnf(format string, args ...any) { f(format, args...) }

type nopDiagnostics struct{}

func (nopDiagnostics) Warnf(string, ...any) {}

// LogrusDiagnostics routes registration warnings to a logrus logger.
func LogrusDiagnostics(logger logrus.FieldLogger) Diagnostics {
	return DiagnosticsFunc(func(format string, args ...any) {
		logger.Warnf(format, args...)
	})
}
