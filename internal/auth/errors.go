package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken means the request carried no usable bearer credential.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is wrapped by every session-token verification failure.
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignature = fmt.Errorf("%w: signature", ErrInvalidToken)
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrInvalidCredentials is wrapped by the detailed local-login failures.
	// Callers decide on the wire response with errors.Is against this value;
	// the detailed causes are for logs and metrics only.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEmail       = fmt.Errorf("%w: unknown email", ErrInvalidCredentials)
	ErrPasswordMismatch   = fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	ErrNoPassword         = fmt.Errorf("%w: account has no password", ErrInvalidCredentials)

	// ErrInvalidIdentityToken covers every way a Google credential can fail.
	ErrInvalidIdentityToken = errors.New("invalid identity token")

	// ErrCodeFlowDisabled is returned by ExchangeCode when no client secret
	// or redirect URL is configured.
	ErrCodeFlowDisabled = errors.New("authorization code flow is not configured")
)
