package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mlluizdevtech/linkhub/internal/auth"
	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/store"
)

var (
	errBadRequest  = errors.New("invalid request body")
	errRateLimited = errors.New("too many attempts, try again later")
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// wireError maps an internal cause to what the client sees. Causes that
// must not be told apart (unknown email vs wrong password, foreign vs
// missing link) share one entry.
func wireError(err error) (int, ErrorResponse) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Error: ve.Message, Code: "VALIDATION_ERROR", Field: ve.Field}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"}
	case errors.Is(err, links.ErrEmptyImport):
		return http.StatusBadRequest, ErrorResponse{Error: "no valid links to import", Code: "EMPTY_IMPORT"}
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict, ErrorResponse{Error: "email already registered", Code: "DUPLICATE_EMAIL"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials", Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token", Code: "MISSING_TOKEN"}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token", Code: "INVALID_TOKEN"}
	case errors.Is(err, auth.ErrInvalidIdentityToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid identity token", Code: "INVALID_IDENTITY_TOKEN"}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "link not found", Code: "NOT_FOUND"}
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{Error: "too many attempts, try again later", Code: "RATE_LIMITED"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL_ERROR"}
	}
}

// errorWriter renders errors and logs the ones the client cannot act on.
type errorWriter struct {
	logger *slog.Logger
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	status, body := wireError(err)
	if status == http.StatusInternalServerError {
		e.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func (e errorWriter) rateLimited(w http.ResponseWriter, r *http.Request) {
	e.write(w, r, errRateLimited)
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// maxBodyBytes caps request bodies; restore payloads are the largest.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}
