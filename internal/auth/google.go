package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	// GoogleIssuer is the expected iss claim. go-oidc also accepts the
	// scheme-less "accounts.google.com" that Google sometimes emits.
	GoogleIssuer = "https://accounts.google.com"

	googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// GoogleEndpoint is Google's OAuth 2.0 endpoint.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Identity is the verified subset of a Google ID token.
type Identity struct {
	ExternalID    string
	Name          string
	Email         string
	EmailVerified bool
}

// GoogleConfig configures a GoogleVerifier. KeySet, Endpoint and Now are
// optional and default to Google's published keys, GoogleEndpoint and
// time.Now.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	KeySet   oidc.KeySet
	Endpoint oauth2.Endpoint
	Now      func() time.Time
}

// GoogleVerifier checks Google ID tokens against the configured client id
// and, when a client secret and redirect URL are configured, exchanges
// authorization codes for them.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
	oauth2   *oauth2.Config
}

// NewGoogleVerifier builds a verifier bound to cfg.ClientID as audience.
// Signing keys are fetched lazily, so construction does no network I/O;
// ctx bounds background key refreshes.
func NewGoogleVerifier(ctx context.Context, cfg GoogleConfig) (*GoogleVerifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("google verifier: empty client id")
	}
	keys := cfg.KeySet
	if keys == nil {
		keys = oidc.NewRemoteKeySet(ctx, googleCertsURL)
	}

	v := &GoogleVerifier{
		verifier: oidc.NewVerifier(GoogleIssuer, keys, &oidc.Config{
			ClientID:             cfg.ClientID,
			SupportedSigningAlgs: []string{oidc.RS256},
			Now:                  cfg.Now,
		}),
	}

	if cfg.ClientSecret != "" && cfg.RedirectURL != "" {
		endpoint := cfg.Endpoint
		if endpoint.TokenURL == "" {
			endpoint = GoogleEndpoint
		}
		v.oauth2 = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
	}
	return v, nil
}

// CodeExchange reports whether ExchangeCode is available.
func (v *GoogleVerifier) CodeExchange() bool { return v.oauth2 != nil }

// Verify validates a raw ID token and extracts the identity. Every failure
// wraps ErrInvalidIdentityToken; the cause is kept for logging.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (Identity, error) {
	if rawIDToken == "" {
		return Identity{}, fmt.Errorf("%w: empty credential", ErrInvalidIdentityToken)
	}
	tok, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIdentityToken, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified any    `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := tok.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("%w: decode claims: %w", ErrInvalidIdentityToken, err)
	}
	if tok.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing sub", ErrInvalidIdentityToken)
	}

	return Identity{
		ExternalID:    tok.Subject,
		Name:          claims.Name,
		Email:         claims.Email,
		EmailVerified: truthy(claims.EmailVerified),
	}, nil
}

// ExchangeCode trades an authorization code for tokens and verifies the
// returned ID token.
func (v *GoogleVerifier) ExchangeCode(ctx context.Context, code string) (Identity, error) {
	if v.oauth2 == nil {
		return Identity{}, ErrCodeFlowDisabled
	}
	tok, err := v.oauth2.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: code exchange: %w", ErrInvalidIdentityToken, err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return Identity{}, fmt.Errorf("%w: no id_token in token response", ErrInvalidIdentityToken)
	}
	return v.Verify(ctx, raw)
}

// truthy accepts email_verified as a JSON bool or as the string form some
// Google endpoints return.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(b)
		return ok
	default:
		return false
	}
}
