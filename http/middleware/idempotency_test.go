package middleware_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse/http/middleware"
)

func TestIdempotent(t *testing.T) {
	// Arrange
	cache := middleware.NewIdemResMap()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()

	// Act: non-POST methods are idempotent by definition and pass through
	middleware.Idempotent(cache, sha256.New())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange: a plain browser form POST carries no key and passes through
	r = httptest.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("email=test%40example.com"))
	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, sha256.New())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
	_, ok := cache.Get(context.Background(), "")
	require.False(t, ok)

	// Arrange
	testKey := "test-idempotency"
	h := sha256.New()
	b := h.Sum(nil)
	h.Reset()

	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	v, ok := cache.Get(context.Background(), testKey)
	require.True(t, ok)
	require.Equal(t, http.StatusTeapot, v.Status)
	require.Equal(t, b, v.Req)
	require.Equal(t, new(bytes.Buffer), v.Body)
	require.Equal(t, "/", v.URI)

	// Arrange: replaying the key returns the cached response
	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(noopHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange: same key, different resource
	r = httptest.NewRequest(http.MethodPost, "https://example.com/other", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Arrange: same key, different body
	r = httptest.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("changed"))
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
