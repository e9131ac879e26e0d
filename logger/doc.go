// Package logger provides the leveled logger gatehouse components write through,
// with optional Sentry reporting for Warn and above.
package logger
