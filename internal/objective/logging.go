package objective

import "log"

// Logger provides structured logging for the objective system. It
// wraps the standard log package to provide consistent, parseable
// output.
type Logger struct{}

// NewLogger creates a new logger instance.
func NewLogger() *Logger {
	return &Logger{}
}

// logf is an internal helper to format output consistently.
func (l *Logger) logf(level, category, format string, args ...interface{}) {
	prefix := "[Objectives][" + level + "][" + category + "] "
	log.Printf(prefix+format, args...)
}

// LogStateTransition logs a change in objective status.
func (l *Logger) LogStateTransition(id string, from, to Status, reason string) {
	l.logf("INFO", "STATE", "Objective %s transitioned: %s -> %s | Reason: %s", id, from, to, reason)
}

// LogActivation logs an admission decision.
func (l *Logger) LogActivation(id string, scope Scope, priority Priority) {
	l.logf("INFO", "ADMIT", "Objective %s activated | Scope: %s | Priority: %s", id, scope, priority)
}

// LogAdmissionDeferred logs a candidate held back by a cap.
func (l *Logger) LogAdmissionDeferred(id string, scope Scope, reason string) {
	l.logf("DEBUG", "ADMIT", "Objective %s deferred | Scope: %s | Reason: %s", id, scope, reason)
}

// LogProgress logs a progress change.
func (l *Logger) LogProgress(id string, progress float64) {
	l.logf("DEBUG", "PROGRESS", "Objective %s progress: %.2f", id, progress)
}

// LogRecovery logs a forced failure after a panic during update.
func (l *Logger) LogRecovery(id string, cause interface{}) {
	l.logf("ERROR", "RECOVER", "Objective %s update panicked, forcing failure | Cause: %v", id, cause)
}

// LogSweep logs a retention sweep outcome.
func (l *Logger) LogSweep(removed int) {
	l.logf("INFO", "SWEEP", "Retention sweep removed %d objectives", removed)
}

// LogError logs errors with operational context.
func (l *Logger) LogError(operation string, err error, context map[string]interface{}) {
	l.logf("ERROR", "SYSTEM", "Operation '%s' failed | Error: %v | Context: %v", operation, err, context)
}
