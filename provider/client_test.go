package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/provider"
	"golang.org/x/oauth2"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, sub, email string, createdAt time.Time, expiresAt time.Time) string {
	t.Helper()

	claims := provider.Claims{
		Email:     email,
		CreatedAt: createdAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.Nil(t, err)
	return raw
}

func newTestProvider(t *testing.T, handler http.Handler) (*provider.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := provider.NewClient(provider.Config{BaseURL: srv.URL, JWTSecret: testSecret}, nil)
	require.Nil(t, err)
	return c, srv
}

func TestNewClient(t *testing.T) {
	// Act + Assert
	_, err := provider.NewClient(provider.Config{}, nil)
	require.ErrorIs(t, err, gatehouse.ErrBadConfig)

	_, err = provider.NewClient(provider.Config{BaseURL: "not a url", JWTSecret: testSecret}, nil)
	require.ErrorIs(t, err, gatehouse.ErrBadConfig)

	_, err = provider.NewClient(provider.Config{BaseURL: "https://id.example.com", JWTSecret: testSecret}, nil)
	require.Nil(t, err)
}

func TestClientSignUp(t *testing.T) {
	// Arrange
	id := uuid.New()
	created := time.Now().Truncate(time.Second)
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.Nil(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"message": "A user with this email address has already been registered"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":         id.String(),
			"email":      body["email"],
			"created_at": created.Format(time.RFC3339),
		})
	})
	c, _ := newTestProvider(t, mux)

	// Act
	u, err := c.SignUp(context.Background(), "new@example.com", "hunter22")

	// Assert
	require.Nil(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "new@example.com", u.Email)
	require.Equal(t, created.Unix(), u.CreatedAt.Unix())

	// Act
	_, err = c.SignUp(context.Background(), "taken@example.com", "hunter22")

	// Assert
	var perr *provider.Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, http.StatusUnprocessableEntity, perr.Code)
	require.Equal(t, "A user with this email address has already been registered", perr.Message)
}

func TestClientLogIn(t *testing.T) {
	// Arrange
	sub := uuid.NewString()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, r.ParseForm())
		require.Equal(t, "password", r.PostForm.Get("grant_type"))

		if r.PostForm.Get("password") != "hunter22" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}

		// NOTE(dlk): without the header, the token payload reads as form data.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  signToken(t, sub, r.PostForm.Get("username"), time.Now(), time.Now().Add(time.Hour)),
			"token_type":    "bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})
	c, _ := newTestProvider(t, mux)

	// Act
	tok, err := c.LogIn(context.Background(), "test@example.com", "hunter22")

	// Assert
	require.Nil(t, err)
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, "refresh-1", tok.RefreshToken)

	// Act
	_, err = c.LogIn(context.Background(), "test@example.com", "wrong")

	// Assert
	var perr *provider.Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Invalid login credentials", perr.Message)
}

func TestClientVerify(t *testing.T) {
	// Arrange
	sub := uuid.NewString()
	created := time.Now().Add(-24 * time.Hour)
	var refreshes int
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))

		if r.PostForm.Get("refresh_token") != "live-refresh" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Refresh token has been revoked",
			})
			return
		}

		refreshes++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  signToken(t, sub, "test@example.com", created, time.Now().Add(time.Hour)),
			"token_type":    "bearer",
			"refresh_token": "rolled-refresh",
			"expires_in":    3600,
		})
	})
	c, _ := newTestProvider(t, mux)

	// Act: no material at all
	_, _, err := c.Verify(context.Background(), nil)

	// Assert
	require.ErrorIs(t, err, provider.ErrNoSession)

	// Act: current access token verifies locally, no round trip
	u, refreshed, err := c.Verify(context.Background(), &oauth2.Token{
		AccessToken: signToken(t, sub, "test@example.com", created, time.Now().Add(time.Hour)),
	})

	// Assert
	require.Nil(t, err)
	require.Nil(t, refreshed)
	require.Equal(t, sub, u.ID.String())
	require.Equal(t, "test@example.com", u.Email)
	require.Equal(t, created.Unix(), u.CreatedAt.Unix())
	require.Zero(t, refreshes)

	// Act: lapsed access token plus live refresh token rolls the pair
	u, refreshed, err = c.Verify(context.Background(), &oauth2.Token{
		AccessToken:  signToken(t, sub, "test@example.com", created, time.Now().Add(-time.Hour)),
		RefreshToken: "live-refresh",
	})

	// Assert
	require.Nil(t, err)
	require.NotNil(t, refreshed)
	require.Equal(t, "rolled-refresh", refreshed.RefreshToken)
	require.Equal(t, "test@example.com", u.Email)
	require.Equal(t, 1, refreshes)

	// Act: lapsed access token, revoked refresh token
	_, _, err = c.Verify(context.Background(), &oauth2.Token{
		AccessToken:  signToken(t, sub, "test@example.com", created, time.Now().Add(-time.Hour)),
		RefreshToken: "revoked",
	})

	// Assert
	var perr *provider.Error
	require.ErrorAs(t, err, &perr)

	// Act: tampered material
	_, _, err = c.Verify(context.Background(), &oauth2.Token{AccessToken: "garbage"})

	// Assert
	require.ErrorIs(t, err, provider.ErrNoSession)
}

func TestClientVerifyFailsClosed(t *testing.T) {
	// Arrange: a provider that is not answering
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := provider.NewClient(provider.Config{BaseURL: srv.URL, JWTSecret: testSecret}, nil)
	require.Nil(t, err)

	// Act
	_, _, err = c.Verify(context.Background(), &oauth2.Token{
		AccessToken:  signToken(t, uuid.NewString(), "test@example.com", time.Now(), time.Now().Add(-time.Hour)),
		RefreshToken: "live-refresh",
	})

	// Assert
	require.ErrorIs(t, err, provider.ErrUnreachable)
}

func TestClientLogOut(t *testing.T) {
	// Arrange
	var sawBearer bool
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		sawBearer = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newTestProvider(t, mux)

	// Act + Assert
	require.Nil(t, c.LogOut(context.Background(), &oauth2.Token{AccessToken: "access"}))
	require.True(t, sawBearer)
	require.Nil(t, c.LogOut(context.Background(), nil))
}
