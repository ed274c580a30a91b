package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlluizdevtech/linkhub/internal/api"
	"github.com/mlluizdevtech/linkhub/internal/auth"
	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/ratelimit"
	"github.com/mlluizdevtech/linkhub/internal/store"
	"github.com/mlluizdevtech/linkhub/internal/testutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// stubGoogle accepts credentials listed in idents.
type stubGoogle struct {
	idents map[string]auth.Identity
}

func (s *stubGoogle) Verify(_ context.Context, raw string) (auth.Identity, error) {
	if id, ok := s.idents[raw]; ok {
		return id, nil
	}
	return auth.Identity{}, fmt.Errorf("%w: signature", auth.ErrInvalidIdentityToken)
}

func (s *stubGoogle) ExchangeCode(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, auth.ErrCodeFlowDisabled
}

// testEnv holds the router and the pieces tests reach into.
type testEnv struct {
	Router    http.Handler
	DB        *sqlx.DB
	Tokens    *auth.TokenIssuer
	UserStore *store.UserStore
	Google    *stubGoogle
}

type envOption func(*api.Deps)

func withLimit(n int) envOption {
	return func(d *api.Deps) { d.Limiter = ratelimit.New(n, 15*time.Minute) }
}

func withoutGoogle() envOption {
	return func(d *api.Deps) { d.FederatedLogin = false }
}

// newTestEnv wires the API router over an in-memory SQLite database.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	users := store.NewUserStore(db)
	google := &stubGoogle{idents: map[string]auth.Identity{}}

	deps := api.Deps{
		Auth:           auth.NewService(users, auth.NewHasher(bcrypt.MinCost), tokens, google, logger),
		Tokens:         tokens,
		Links:          links.NewService(store.NewLinkStore(db), logger),
		Limiter:        ratelimit.New(1000, 15*time.Minute),
		Logger:         logger,
		FederatedLogin: true,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testEnv{
		Router:    api.NewAPIRouter(deps),
		DB:        db,
		Tokens:    tokens,
		UserStore: users,
		Google:    google,
	}
}

// do sends a JSON request and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its token.
func (e *testEnv) register(t *testing.T, name, email, password string) api.AuthResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", "", api.RegisterRequest{Name: name, Email: email, Password: password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.AuthResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
