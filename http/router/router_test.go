package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/middleware"
	"github.com/xy-planning-network/gatehouse/http/router"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

// withUser fakes the session verifying middleware vouching for a user.
func withUser(u gatehouse.User) middleware.Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), gatehouse.CurrentUserKey, u)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

func TestRouterHandleRoutes(t *testing.T) {
	// Arrange
	r := router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.HandleRoutes([]router.Route{
		{Path: "/", Method: http.MethodGet, Handler: okHandler("home")},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "home", w.Body.String())

	// Arrange: method mismatch is not routed
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "https://example.com/", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouterAuthedRoutes(t *testing.T) {
	// Arrange: no user in the request context
	r := router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.AuthedRoutes("/login", "/logoff", []router.Route{
		{Path: "/dashboard", Method: http.MethodGet, Handler: okHandler("dashboard")},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/dashboard", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Contains(t, w.Header().Get("Location"), "/login?next=")

	// Arrange: a verified user passes the gate
	u := gatehouse.User{ID: uuid.New(), Email: "test@example.com"}
	r = router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.OnEveryRequest(withUser(u))
	r.AuthedRoutes("/login", "/logoff", []router.Route{
		{Path: "/dashboard", Method: http.MethodGet, Handler: okHandler("dashboard")},
	})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "https://example.com/dashboard", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "dashboard", w.Body.String())
}

func TestRouterUnauthedRoutes(t *testing.T) {
	// Arrange: a verified user has no business on auth entry pages
	u := gatehouse.User{ID: uuid.New(), Email: "test@example.com"}
	r := router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.OnEveryRequest(withUser(u))
	r.UnauthedRoutes([]router.Route{
		{Path: "/login", Method: http.MethodGet, Handler: okHandler("login")},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, u.HomePath(), w.Header().Get("Location"))

	// Arrange: anonymous requests pass
	r = router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.UnauthedRoutes([]router.Route{
		{Path: "/login", Method: http.MethodGet, Handler: okHandler("login")},
	})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "login", w.Body.String())
}

func TestRouterHandleNotFound(t *testing.T) {
	// Arrange
	r := router.New(gatehouse.Testing, middleware.NoopAdapter)
	r.HandleNotFound(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("lost?"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/nope", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "lost?", w.Body.String())
}

func TestRouterSubrouter(t *testing.T) {
	// Arrange
	r := router.New(gatehouse.Testing, middleware.NoopAdapter)
	api := r.Subrouter("/api/v1")
	api.HandleRoutes([]router.Route{
		{Path: "/ping", Method: http.MethodGet, Handler: okHandler("pong")},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "https://example.com/api/v1/ping", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
}
