package core

import (
	"errors"
	"testing"
)

func TestSecretFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		primary     string
		fallback    string
		want        string
		wantErr     error
	}{
		{
			name:        "primary wins",
			environment: EnvProduction,
			primary:     "primary-secret",
			fallback:    "fallback-secret",
			want:        "primary-secret",
		},
		{
			name:        "fallback used when primary empty",
			environment: EnvProduction,
			fallback:    "fallback-secret",
			want:        "fallback-secret",
		},
		{
			name:        "missing in production is fatal",
			environment: EnvProduction,
			wantErr:     ErrSecretMissing,
		},
		{
			name:        "dev default outside production",
			environment: "development",
			want:        devSecret,
		},
		{
			name:        "explicit secret outside production",
			environment: "development",
			primary:     "primary-secret",
			want:        "primary-secret",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			t.Setenv(secretEnvPrimary, test.primary)
			t.Setenv(secretEnvFallback, test.fallback)

			// Act
			got, err := SecretFromEnv(test.environment)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("SecretFromEnv() error = %v, want %v", err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("SecretFromEnv() = %q, want %q", got, test.want)
			}
		})
	}
}
