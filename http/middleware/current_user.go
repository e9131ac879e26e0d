package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/gatehouse/http/keyring"
)

// The User defines attributes about a user in the context of middleware.
type User interface {
	HasAccess() bool
	HomePath() string
}

// RequireUnauthed returns a middleware.Adapter that checks whether a user is authenticated
// and requires they not be authenticated.
// When they are not authenticated, RequireUnauthed hands off to the next part of the middleware chain.
//
// Authenticated means a User is set in the request context with the provided key.
//
// When the User is authenticated, and the request's "Accept" header has "application/json" in it,
// RequireUnauthed writes 400 to the client.
// If the request does not have that value in its header,
// RequireUnauthed redirects to the User's HomePath.
func RequireUnauthed(key keyring.Keyable) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cu, ok := r.Context().Value(key).(User); ok {
				if acceptsJSON(r.Header) {
					w.WriteHeader(http.StatusBadRequest)
					return
				}

				http.Redirect(w, r, cu.HomePath(), http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireAuthed returns a middleware.Adapter that checks whether a User is authenticated,
// and requires they be authenticated.
// When the User is authenticated, RequireAuthed hands off to the next part of the middleware chain.
//
// Authenticated means a User is set in the request context with the provided key.
//
// When the User is not authenticated, and the request's "Accept" header has "application/json" in it,
// RequireAuthed writes 401 to the client.
// If the request does not have that value in its header,
// RequireAuthed redirects to the provided login URL.
//
// The URL originally requested is appended as a "next" query param
// when the request method is GET and the endpoint is not the logoff URL.
func RequireAuthed(key keyring.Keyable, loginUrl, logoffUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(key).(User); !ok {
				if acceptsJSON(r.Header) {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				u := loginUrl
				if r.Method == http.MethodGet && r.URL.Path != logoffUrl {
					u += "?next=" + url.QueryEscape(r.URL.String())
				}

				http.Redirect(w, r, u, http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// acceptsJSON asserts whether the request wants JSON back rather than rendered HTML.
func acceptsJSON(header http.Header) bool {
	for _, v := range header.Values("Accept") {
		if strings.Compare(v, "application/json") == 0 {
			return true
		}
	}

	return false
}
