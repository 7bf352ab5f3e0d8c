package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// ErrNoCredentialsPath is returned when no credentials path is configured.
var ErrNoCredentialsPath = errors.New("credentials path is not set (use --credentials or ANALYTICS_CREDENTIALS_PATH)")

// CredentialLoader produces an authenticated HTTP client for Google APIs.
// This abstraction lets tests swap the service account for a plain client.
type CredentialLoader interface {
	// HTTPClient returns a client that attaches fresh access tokens to every request.
	HTTPClient(ctx context.Context) (*http.Client, error)
}

// ServiceAccountLoader loads a service account JSON key from disk.
type ServiceAccountLoader struct {
	path   string
	scopes []string
}

// NewServiceAccountLoader creates a loader for the key file at path. When no
// scopes are given AnalyticsScopes is used.
func NewServiceAccountLoader(path string, scopes ...string) *ServiceAccountLoader {
	if len(scopes) == 0 {
		scopes = AnalyticsScopes
	}
	return &ServiceAccountLoader{path: path, scopes: scopes}
}

// Path returns the key file path.
func (l *ServiceAccountLoader) Path() string {
	return l.path
}

// Config parses the key file into a JWT config.
func (l *ServiceAccountLoader) Config() (*jwt.Config, error) {
	if l.path == "" {
		return nil, ErrNoCredentialsPath
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", l.path, err)
	}

	conf, err := google.JWTConfigFromJSON(data, l.scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return conf, nil
}

// HTTPClient returns an HTTP client authenticated as the service account.
func (l *ServiceAccountLoader) HTTPClient(ctx context.Context) (*http.Client, error) {
	conf, err := l.Config()
	if err != nil {
		return nil, err
	}
	return conf.Client(ctx), nil
}

// TokenSource returns the token source of the service account. It is used
// by check-credentials to verify that the key can actually mint a token.
func (l *ServiceAccountLoader) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := l.Config()
	if err != nil {
		return nil, err
	}
	return conf.TokenSource(ctx), nil
}

// StaticClientLoader returns a fixed HTTP client. Useful when the caller
// already has an authenticated client, or in tests.
type StaticClientLoader struct {
	Client *http.Client
}

// HTTPClient returns the configured client, or http.DefaultClient.
func (l StaticClientLoader) HTTPClient(_ context.Context) (*http.Client, error) {
	if l.Client == nil {
		return http.DefaultClient, nil
	}
	return l.Client, nil
}
