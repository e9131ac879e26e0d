package middleware_test

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/middleware"
	"github.com/xy-planning-network/gatehouse/http/session"
	"github.com/xy-planning-network/gatehouse/provider"
	"golang.org/x/oauth2"
)

const (
	sessKey = ctxKey("session")
	userKey = ctxKey("user")
)

func newTestStore(t *testing.T) session.Service {
	t.Helper()

	store, err := session.NewStoreService(session.Config{
		AuthKey:     hex.EncodeToString([]byte("64-byte-auth-key")),
		EncryptKey:  hex.EncodeToString([]byte("32-byte-encr-key")),
		Env:         gatehouse.Testing,
		SessionName: "gatehouse-test",
	})
	require.Nil(t, err)
	return store
}

// requestWithTokens round-trips credential material through a Set-Cookie
// so the request looks like one a returning browser would make.
func requestWithTokens(t *testing.T, store session.Service, tok *oauth2.Token) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := store.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, s.RegisterTokens(w, r, tok))

	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestVerifySession(t *testing.T) {
	// Arrange + Act
	actual := middleware.VerifySession(nil, nil, nil, nil, nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange: no credential material at all
	store := newTestStore(t)
	oracle := &provider.Stub{Err: provider.ErrNoSession}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act + Assert: the request continues as anonymous with a session in hand
	middleware.VerifySession(store, oracle, nil, sessKey, userKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(userKey).(gatehouse.User)
		require.False(t, ok)

		_, ok = rx.Context().Value(sessKey).(session.Session)
		require.True(t, ok)
	})).ServeHTTP(w, r)

	// Arrange: the provider vouches for the material
	u := gatehouse.User{ID: uuid.New(), Email: "test@example.com"}
	oracle = &provider.Stub{User: u}
	w = httptest.NewRecorder()
	r = requestWithTokens(t, store, &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"})

	// Act + Assert
	middleware.VerifySession(store, oracle, nil, sessKey, userKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		got, ok := rx.Context().Value(userKey).(gatehouse.User)
		require.True(t, ok)
		require.Equal(t, u, got)
	})).ServeHTTP(w, r)

	require.Equal(t, "no-store", w.Header().Get("Cache-control"))
	require.Equal(t, "no-cache", w.Header().Get("Pragma"))

	// Arrange: the provider rejects the material
	oracle = &provider.Stub{Err: &provider.Error{Code: http.StatusUnauthorized, Message: "Session revoked"}}
	w = httptest.NewRecorder()
	r = requestWithTokens(t, store, &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"})

	// Act + Assert: rejected means anonymous, not an error page
	middleware.VerifySession(store, oracle, nil, sessKey, userKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(userKey).(gatehouse.User)
		require.False(t, ok)
	})).ServeHTTP(w, r)
}

func TestVerifySessionFailsClosed(t *testing.T) {
	// Arrange: the provider cannot be reached
	store := newTestStore(t)
	oracle := &provider.Stub{Err: fmt.Errorf("%w: connection refused", provider.ErrUnreachable)}
	rl := new(recordingLogger)
	w := httptest.NewRecorder()
	r := requestWithTokens(t, store, &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"})

	// Act + Assert: anonymous, and the outage is logged
	middleware.VerifySession(store, oracle, rl, sessKey, userKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(userKey).(gatehouse.User)
		require.False(t, ok)
	})).ServeHTTP(w, r)

	require.Contains(t, rl.msgs, "could not verify session")
}

func TestVerifySessionWritesRefreshedTokens(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	u := gatehouse.User{ID: uuid.New(), Email: "test@example.com"}
	refreshed := &oauth2.Token{
		AccessToken:  "rolled-access",
		RefreshToken: "rolled-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	oracle := &provider.Stub{User: u, Refreshed: refreshed}
	w := httptest.NewRecorder()
	r := requestWithTokens(t, store, &oauth2.Token{AccessToken: "lapsed", RefreshToken: "refresh"})

	// Act: downstream handler redirects, as an access gate would
	middleware.VerifySession(store, oracle, nil, sessKey, userKey)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		http.Redirect(wx, rx, "/dashboard", http.StatusTemporaryRedirect)
	})).ServeHTTP(w, r)

	// Assert: the rolled pair rides along on the redirect
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.NotEmpty(t, w.Result().Cookies())

	next := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}

	s, err := store.GetSession(next)
	require.Nil(t, err)

	tok, err := s.Tokens()
	require.Nil(t, err)
	require.Equal(t, "rolled-access", tok.AccessToken)
	require.Equal(t, "rolled-refresh", tok.RefreshToken)
}
