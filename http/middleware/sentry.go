package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/gatehouse"
)

// ReportPanic wraps the handler in sentryhttp.Handle
// in order to recover and report panics.
//
// Development and testing environments skip Sentry so panics surface locally.
func ReportPanic(env gatehouse.Environment) Adapter {
	if env.IsDevelopment() || env.IsTesting() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.Handler) http.Handler {
		return sh.Handle(handler)
	}
}
