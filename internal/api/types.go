package api

import (
	"time"

	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/store"
)

// --- Auth types ---

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest is the request body for POST /auth/google. Exactly one
// of Credential (an ID token) or Code (an authorization code) is expected.
type GoogleLoginRequest struct {
	Credential string `json:"credential,omitempty"`
	Code       string `json:"code,omitempty"`
}

// UserResponse is the JSON representation of a user. The password hash is
// never included.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	HasPassword  bool      `json:"has_password"`
	GoogleLinked bool      `json:"google_linked"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthResponse is returned by every successful sign-in.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// --- Link types ---

// LinkRequest is the request body for POST /links and PUT /links/{id}.
type LinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkResponse is the JSON representation of a single link.
type LinkResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkEnvelope wraps a single link.
type LinkEnvelope struct {
	Link LinkResponse `json:"link"`
}

// LinkMessageResponse is returned by update and delete.
type LinkMessageResponse struct {
	Message string       `json:"message"`
	Link    LinkResponse `json:"link"`
}

// LinkListResponse is returned by GET /links.
type LinkListResponse struct {
	Links []LinkResponse `json:"links"`
}

// LinkEntry is the portable title/url pair used by backup and restore.
type LinkEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BackupResponse is returned by GET /links/backup and accepted as the
// body of POST /links/restore.
type BackupResponse struct {
	Links []LinkEntry `json:"links"`
}

// RestoreRequest is the request body for POST /links/restore.
type RestoreRequest struct {
	Links []LinkEntry `json:"links"`
}

// RestoreResponse reports how many entries were imported.
type RestoreResponse struct {
	Message string         `json:"message"`
	Count   int            `json:"count"`
	Links   []LinkResponse `json:"links"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email.String,
		HasPassword:  u.HasPassword(),
		GoogleLinked: u.GoogleID.Valid,
		CreatedAt:    u.CreatedAt,
	}
}

func toLinkResponse(l *store.Link) LinkResponse {
	return LinkResponse{
		ID:        l.ID,
		Title:     l.Title,
		URL:       l.URL,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toLinkResponses(ls []*store.Link) []LinkResponse {
	out := make([]LinkResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLinkResponse(l))
	}
	return out
}

func toEntries(in []LinkEntry) []links.Entry {
	out := make([]links.Entry, 0, len(in))
	for _, e := range in {
		out = append(out, links.Entry{Title: e.Title, URL: e.URL})
	}
	return out
}

func fromEntries(in []links.Entry) []LinkEntry {
	out := make([]LinkEntry, 0, len(in))
	for _, e := range in {
		out = append(out, LinkEntry{Title: e.Title, URL: e.URL})
	}
	return out
}
