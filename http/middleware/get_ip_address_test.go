package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/middleware"
)

func TestGetIPAddress(t *testing.T) {
	tcs := []struct {
		name     string
		header   http.Header
		expected string
	}{
		{"Zero-Value", http.Header{}, "0.0.0.0"},
		{"Public", http.Header{"X-Forwarded-For": []string{"93.184.216.34"}}, "93.184.216.34"},
		{"Private-Skipped", http.Header{"X-Forwarded-For": []string{"192.168.1.1"}}, "0.0.0.0"},
		{"Rightmost-Public", http.Header{"X-Forwarded-For": []string{"203.0.113.7, 93.184.216.34, 10.0.0.1"}}, "93.184.216.34"},
		{"Real-Ip-Fallback", http.Header{"X-Real-Ip": []string{"93.184.216.34"}}, "93.184.216.34"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act + Assert
			require.Equal(t, tc.expected, middleware.GetIPAddress(tc.header))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("X-Forwarded-For", "93.184.216.34")

	// Act + Assert
	middleware.InjectIPAddress()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		val, ok := rx.Context().Value(gatehouse.IpAddrKey).(string)
		require.True(t, ok)
		require.Equal(t, "93.184.216.34", val)
	})).ServeHTTP(w, r)
}
