package github

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppConfig contains GitHub App authentication settings.
type AppConfig struct {
	AppID          int64
	PrivateKeyPath string
	PrivateKey     string // inline PEM, takes precedence over the path
	BaseURL        string // override for GHES or test servers
}

// AppAuth exchanges the App's long-lived private key for short-lived
// installation access tokens. Safe for concurrent use; the key is
// parsed once at construction and read-only afterwards.
type AppAuth struct {
	appID   int64
	key     *rsa.PrivateKey
	baseURL string
}

// NewAppAuth parses the configured private key and returns an
// authenticator. A missing or malformed key is fatal here, before any
// request is served.
func NewAppAuth(cfg AppConfig) (*AppAuth, error) {
	if cfg.AppID == 0 {
		return nil, errors.New("github app id is required")
	}
	pemBytes := []byte(cfg.PrivateKey)
	if len(pemBytes) == 0 {
		if cfg.PrivateKeyPath == "" {
			return nil, errors.New("github private key is required")
		}
		data, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		pemBytes = data
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse github private key: %w", err)
	}
	return &AppAuth{
		appID:   cfg.AppID,
		key:     key,
		baseURL: normalizeBaseURL(cfg.BaseURL),
	}, nil
}

// InstallationToken requests an access token scoped to one
// installation. The token is treated as an opaque bearer value and is
// never cached across requests.
func (a *AppAuth) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	if installationID == 0 {
		return "", errors.New("github installation id is required")
	}
	appJWT, err := a.appJWT()
	if err != nil {
		return "", err
	}
	client, err := NewAPIClient(ctx, appJWT, a.baseURL)
	if err != nil {
		return "", err
	}
	token, _, err := client.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return "", fmt.Errorf("github token exchange: %w", err)
	}
	if token.GetToken() == "" {
		return "", errors.New("github installation token missing from response")
	}
	return token.GetToken(), nil
}

// appJWT mints the short-lived RS256 assertion GitHub requires on App
// endpoints. iat is backdated to absorb clock skew.
func (a *AppAuth) appJWT() (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    strconv.FormatInt(a.appID, 10),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
}
