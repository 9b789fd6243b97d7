package core

import "os"

const (
	// EnvProduction is the Environment value that hardens cookie and
	// secret handling.
	EnvProduction = "production"

	secretEnvPrimary  = "SALDOFY_SESSION_SECRET"
	secretEnvFallback = "SESSION_SECRET"

	// devSecret keeps local development working without configuration. It
	// is never an acceptable production value; SecretFromEnv refuses to
	// fall back to it there.
	devSecret = "saldofy-development-secret-not-for-production-use"
)

// SecretFromEnv resolves the session secret from SALDOFY_SESSION_SECRET,
// falling back to SESSION_SECRET. In production a missing secret is a fatal
// configuration error (ErrSecretMissing); outside production a fixed
// development default is substituted so local setups need no configuration.
func SecretFromEnv(environment string) (string, error) {
	secret := os.Getenv(secretEnvPrimary)
	if secret == "" {
		secret = os.Getenv(secretEnvFallback)
	}
	if secret != "" {
		return secret, nil
	}
	if environment == EnvProduction {
		return "", ErrSecretMissing
	}
	return devSecret, nil
}
