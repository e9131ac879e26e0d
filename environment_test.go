package gatehouse_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
)

func TestEnvironmentValid(t *testing.T) {
	// Arrange
	tcs := []struct {
		name string
		env  gatehouse.Environment
		err  error
	}{
		{"Zero-Value", gatehouse.Environment(""), gatehouse.ErrNotValid},
		{"Unknown", gatehouse.Environment("unknown"), gatehouse.ErrNotValid},
		{"Demo", gatehouse.Demo, nil},
		{"Development", gatehouse.Development, nil},
		{"Production", gatehouse.Production, nil},
		{"Review", gatehouse.Review, nil},
		{"Staging", gatehouse.Staging, nil},
		{"Testing", gatehouse.Testing, nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act + Assert
			require.ErrorIs(t, tc.env.Valid(), tc.err)
		})
	}
}

func TestEnvVarOrEnv(t *testing.T) {
	// Arrange
	key := "GATEHOUSE_TEST_ENVIRONMENT"

	// Act + Assert
	require.Equal(t, gatehouse.Development, gatehouse.EnvVarOrEnv(key, gatehouse.Development))

	// Arrange
	t.Setenv(key, "staging")

	// Act + Assert
	require.Equal(t, gatehouse.Staging, gatehouse.EnvVarOrEnv(key, gatehouse.Development))

	// Arrange
	t.Setenv(key, "not-an-env")

	// Act + Assert
	require.Equal(t, gatehouse.Development, gatehouse.EnvVarOrEnv(key, gatehouse.Development))
}

func TestEnvVarOrDuration(t *testing.T) {
	// Arrange
	key := "GATEHOUSE_TEST_DURATION"
	t.Setenv(key, "250ms")

	// Act + Assert
	require.Equal(t, 250*time.Millisecond, gatehouse.EnvVarOrDuration(key, time.Second))

	// Arrange
	t.Setenv(key, "oops")

	// Act + Assert
	require.Equal(t, time.Second, gatehouse.EnvVarOrDuration(key, time.Second))
}

func TestEnvVarOrURL(t *testing.T) {
	// Arrange
	key := "GATEHOUSE_TEST_URL"

	// Act + Assert
	require.Equal(t, "http://localhost:3000", gatehouse.EnvVarOrURL(key, "http://localhost:3000").String())

	// Arrange
	t.Setenv(key, "https://example.com")

	// Act + Assert
	require.Equal(t, "https://example.com", gatehouse.EnvVarOrURL(key, "http://localhost:3000").String())
}
