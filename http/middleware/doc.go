/*
The middleware package defines what a middleware is in gatehouse and the set of
middlewares gating route access on the identity provider's say-so.

The available middlewares are:
- CORS
- ForceHTTPS
- Idempotent
- InjectIPAddress
- InjectResponder
- LogRequest
- RateLimit
- ReportPanic
- RequestID
- RequireAuthed
- RequireUnauthed
- VerifySession

Due to the amount of configuration required, middleware does not provide a default middleware chain.
Instead, the following can be copy-pasted:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(requestIDKey),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.VerifySession(sessionStore, oracle, log, sessionKey, userKey),
	}

RequireAuthed and RequireUnauthed are then applied per route group,
downstream of VerifySession.
*/
package middleware
