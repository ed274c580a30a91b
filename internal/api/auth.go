package api

import (
	"net/http"

	"github.com/mlluizdevtech/linkhub/internal/auth"
)

// authAPIHandler serves registration, login and the caller's profile.
type authAPIHandler struct {
	svc  *auth.Service
	errs errorWriter
}

// Register creates a local account and signs it in.
// POST /auth/register
//
// @Summary      Register
// @Description  Creates an account with email and password and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      201   {object}  AuthResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	sess, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{User: toUserResponse(sess.User), Token: sess.Token})
}

// Login signs in with email and password.
// POST /auth/login
//
// @Summary      Log in
// @Description  Exchanges email and password for a session token. All credential failures return the same body.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(sess.User), Token: sess.Token})
}

// Google signs in with a Google ID token or authorization code.
// POST /auth/google
//
// @Summary      Log in with Google
// @Description  Verifies a Google ID token (or exchanges an authorization code) and returns a session token. A verified email that matches a password account links the two.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      GoogleLoginRequest  true  "Google credential"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/google [post]
func (h *authAPIHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	sess, err := h.svc.LoginGoogle(r.Context(), req.Credential, req.Code)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(sess.User), Token: sess.Token})
}

// Me returns the authenticated caller's profile.
// GET /auth/me
//
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /auth/me [get]
func (h *authAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errs.write(w, r, auth.ErrMissingToken)
		return
	}

	u, err := h.svc.Me(r.Context(), p)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: toUserResponse(u)})
}
