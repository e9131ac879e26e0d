package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/gatehouse/http/keyring"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/logger"
	"github.com/xy-planning-network/gatehouse/provider"
)

// VerifySession asks the identity provider whether the credential material in
// the request's session cookie vouches for a user, exactly once per request.
//
// When it does, the user is stored in the *http.Request.Context under userKey
// for access control middlewares and handlers to pull out.
// When it does not - absent, expired, or revoked material, or a provider that
// cannot be reached - no user is stored and the request continues as anonymous,
// so downstream gates fail closed.
//
// A provider that rolls the token pair during verification has the fresh pair
// written back into the session before the request moves down the chain;
// the Set-Cookie rides along even when a later middleware redirects.
//
// The session itself is stored under sessionKey whether or not a user exists.
//
// If store, oracle, or either key are their zero-values,
// NoopAdapter returns and this middleware does nothing.
func VerifySession(store session.SessionStorer, oracle provider.Verifier, ls logger.Logger, sessionKey, userKey keyring.Keyable) Adapter {
	if store == nil || oracle == nil || sessionKey == nil || userKey == nil {
		return NoopAdapter
	}

	if ls == nil {
		ls = logger.New()
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// NOTE(dlk): a failed read hands back a fresh session,
			// which is all an anonymous request needs.
			s, _ := store.GetSession(r)
			ctx := context.WithValue(r.Context(), sessionKey, s)

			t, err := s.Tokens()
			if err != nil {
				h.ServeHTTP(w, r.Clone(ctx))
				return
			}

			u, refreshed, err := oracle.Verify(r.Context(), t)
			if refreshed != nil {
				if err := s.RegisterTokens(w, r, refreshed); err != nil {
					ls.Error("failed writing refreshed tokens to session", &logger.LogContext{Error: err, Request: r})
				}
			}

			if err != nil {
				if errors.Is(err, provider.ErrUnreachable) {
					ls.Error("could not verify session", &logger.LogContext{Error: err, Request: r})
				}

				h.ServeHTTP(w, r.Clone(ctx))
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx = context.WithValue(ctx, userKey, u)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
