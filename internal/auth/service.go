// Package auth establishes who a caller is: local registration and login
// with bcrypt passwords, Google ID-token exchange, HS256 session tokens and
// the bearer middleware that turns a token back into a Principal.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mlluizdevtech/linkhub/internal/metrics"
	"github.com/mlluizdevtech/linkhub/internal/store"
)

// IdentityExchanger turns a Google credential into a verified Identity.
// *GoogleVerifier is the production implementation.
type IdentityExchanger interface {
	Verify(ctx context.Context, rawIDToken string) (Identity, error)
	ExchangeCode(ctx context.Context, code string) (Identity, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	User  *store.User
	Token string
}

// Service runs the registration and login flows.
type Service struct {
	users  *store.UserStore
	hasher *Hasher
	tokens *TokenIssuer
	google IdentityExchanger
	logger *slog.Logger
}

// NewService wires the flows together. google may be nil, in which case
// LoginGoogle always fails with ErrInvalidIdentityToken.
func NewService(users *store.UserStore, hasher *Hasher, tokens *TokenIssuer, google IdentityExchanger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, google: google, logger: logger}
}

// Register validates input, hashes the password and inserts the user in a
// single statement. A taken email yields store.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	defer observe(metrics.FlowRegister, time.Now())

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := ValidateRegistration(name, email, password); err != nil {
		count(metrics.FlowRegister, metrics.OutcomeInvalid)
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		count(metrics.FlowRegister, metrics.OutcomeError)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			count(metrics.FlowRegister, metrics.OutcomeConflict)
			s.logger.InfoContext(ctx, "registration rejected", "reason", "duplicate email")
		} else {
			count(metrics.FlowRegister, metrics.OutcomeError)
		}
		return nil, err
	}

	sess, err := s.issue(u)
	if err != nil {
		count(metrics.FlowRegister, metrics.OutcomeError)
		return nil, err
	}
	count(metrics.FlowRegister, metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return sess, nil
}

// Login checks local credentials. Every failure wraps ErrInvalidCredentials
// and the HTTP layer renders them identically; the detailed cause is only
// logged.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	defer observe(metrics.FlowLogin, time.Now())

	email = NormalizeEmail(email)
	if err := ValidateLogin(email, password); err != nil {
		count(metrics.FlowLogin, metrics.OutcomeInvalid)
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.hasher.Burn(password)
		return nil, s.loginFailed(ctx, ErrUnknownEmail)
	case err != nil:
		count(metrics.FlowLogin, metrics.OutcomeError)
		return nil, err
	case !u.HasPassword():
		s.hasher.Burn(password)
		return nil, s.loginFailed(ctx, ErrNoPassword)
	case !s.hasher.Verify(password, u.PasswordHash.String):
		return nil, s.loginFailed(ctx, ErrPasswordMismatch)
	}

	sess, err := s.issue(u)
	if err != nil {
		count(metrics.FlowLogin, metrics.OutcomeError)
		return nil, err
	}
	count(metrics.FlowLogin, metrics.OutcomeSuccess)
	return sess, nil
}

func (s *Service) loginFailed(ctx context.Context, cause error) error {
	count(metrics.FlowLogin, metrics.OutcomeRejected)
	s.logger.InfoContext(ctx, "login rejected", "reason", cause.Error())
	return cause
}

// LoginGoogle signs in with either an ID token (credential) or an
// authorization code. The user is created or refreshed by one atomic upsert
// keyed on the Google subject.
func (s *Service) LoginGoogle(ctx context.Context, credential, code string) (*Session, error) {
	defer observe(metrics.FlowGoogle, time.Now())

	credential = strings.TrimSpace(credential)
	code = strings.TrimSpace(code)
	if credential == "" && code == "" {
		count(metrics.FlowGoogle, metrics.OutcomeInvalid)
		return nil, store.Invalid("credential", "credential is required")
	}
	if s.google == nil {
		count(metrics.FlowGoogle, metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: federated login disabled", ErrInvalidIdentityToken)
	}

	var (
		ident Identity
		err   error
	)
	if credential != "" {
		ident, err = s.google.Verify(ctx, credential)
	} else {
		ident, err = s.google.ExchangeCode(ctx, code)
	}
	if errors.Is(err, ErrCodeFlowDisabled) {
		count(metrics.FlowGoogle, metrics.OutcomeInvalid)
		return nil, store.Invalid("code", "authorization code login is not enabled")
	}
	if err != nil {
		count(metrics.FlowGoogle, metrics.OutcomeRejected)
		s.logger.InfoContext(ctx, "identity token rejected", "error", err)
		return nil, err
	}

	u, err := s.users.UpsertGoogle(ctx, store.GoogleIdentity{
		Subject:       ident.ExternalID,
		Name:          strings.TrimSpace(ident.Name),
		Email:         NormalizeEmail(ident.Email),
		EmailVerified: ident.EmailVerified,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			count(metrics.FlowGoogle, metrics.OutcomeConflict)
			s.logger.InfoContext(ctx, "federated login conflicts with existing account",
				"email_verified", ident.EmailVerified)
		} else {
			count(metrics.FlowGoogle, metrics.OutcomeError)
		}
		return nil, err
	}

	sess, err := s.issue(u)
	if err != nil {
		count(metrics.FlowGoogle, metrics.OutcomeError)
		return nil, err
	}
	count(metrics.FlowGoogle, metrics.OutcomeSuccess)
	return sess, nil
}

// Me loads the user behind an authenticated principal.
func (s *Service) Me(ctx context.Context, p Principal) (*store.User, error) {
	u, err := s.users.GetByID(ctx, p.ID)
	if errors.Is(err, store.ErrNotFound) {
		// The token outlived its user.
		return nil, fmt.Errorf("%w: unknown principal", ErrInvalidToken)
	}
	return u, err
}

func (s *Service) issue(u *store.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Email.String)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

func count(flow, outcome string) {
	metrics.AuthAttemptsTotal.WithLabelValues(flow, outcome).Inc()
}

func observe(flow string, start time.Time) {
	metrics.AuthDuration.WithLabelValues(flow).Observe(time.Since(start).Seconds())
}
