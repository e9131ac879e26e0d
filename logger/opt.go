package logger

import "log"

// A LoggerOptFn is a functional option configuring a GateLogger when constructing a new one.
type LoggerOptFn func(*GateLogger)

// WithEnv sets the environment GateLogger is operating in.
func WithEnv(env string) func(*GateLogger) {
	return func(l *GateLogger) {
		l.env = env
	}
}

// WithLevel sets the log level GateLogger uses.
func WithLevel(level LogLevel) func(*GateLogger) {
	return func(l *GateLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger GateLogger uses.
func WithLogger(log *log.Logger) func(*GateLogger) {
	return func(l *GateLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*GateLogger) {
	return func(l *GateLogger) {
		l.skip = skip
	}
}
