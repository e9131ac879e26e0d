package middleware_test

import (
	"net/http"

	"github.com/xy-planning-network/gatehouse/logger"
)

type ctxKey string

func (k ctxKey) Key() string    { return string(k) }
func (k ctxKey) String() string { return string(k) }

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func teapotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

// A recordingLogger captures messages so tests can assert on what was logged.
type recordingLogger struct {
	msgs []string
}

func (rl *recordingLogger) Debug(msg string, _ *logger.LogContext) { rl.msgs = append(rl.msgs, msg) }
func (rl *recordingLogger) Error(msg string, _ *logger.LogContext) { rl.msgs = append(rl.msgs, msg) }
func (rl *recordingLogger) Fatal(msg string, _ *logger.LogContext) { rl.msgs = append(rl.msgs, msg) }
func (rl *recordingLogger) Info(msg string, _ *logger.LogContext)  { rl.msgs = append(rl.msgs, msg) }
func (rl *recordingLogger) Warn(msg string, _ *logger.LogContext)  { rl.msgs = append(rl.msgs, msg) }
func (rl *recordingLogger) LogLevel() logger.LogLevel              { return logger.LogLevelDebug }
