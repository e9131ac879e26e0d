package template_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/template"
)

func TestCurrentUser(t *testing.T) {
	// Arrange
	tcs := []struct {
		name     string
		expected any
	}{
		{"nil", nil},
		{"struct", struct{}{}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			name, fn := template.CurrentUser(tc.expected)

			// Assert
			require.Equal(t, "currentUser", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}

func TestEnv(t *testing.T) {
	// Arrange + Act
	name, fn := template.Env(gatehouse.Testing)

	// Assert
	require.Equal(t, "env", name)
	require.Equal(t, "TESTING", fn())
}

func TestNonce(t *testing.T) {
	// Arrange + Act
	name, fn := template.Nonce()

	// Assert
	require.Equal(t, "nonce", name)
	require.NotEqual(t, fn(), fn())
}

func TestRootUrl(t *testing.T) {
	// Arrange
	example, err := url.ParseRequestURI("https://example.com")
	require.Nil(t, err)

	tcs := []struct {
		name     string
		actual   *url.URL
		expected string
	}{
		{"nil", nil, ""},
		{"zero-value", new(url.URL), ""},
		{"example.com", example, "https://example.com"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			name, fn := template.RootUrl(tc.actual)

			// Assert
			require.Equal(t, "rootUrl", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}
