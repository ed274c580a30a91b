package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is a row in the users table. A user always has a password hash, a
// Google id, or both.
type User struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	GoogleID     sql.NullString `db:"google_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// HasPassword reports whether the user can log in with local credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}

// GoogleIdentity is the verified profile used to upsert a federated user.
type GoogleIdentity struct {
	Subject       string
	Name          string
	Email         string
	EmailVerified bool
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a locally registered user. The unique index on email is the
// only duplicate check, so concurrent registrations for one email cannot both
// succeed. Any unique violation is reported as ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	id := newID()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, name, email, passwordHash, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getOne(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

// GetByID returns the user matching id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getOne(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

func (s *UserStore) getByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return s.getOne(ctx, `SELECT * FROM users WHERE google_id = ?`, googleID)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

const upsertGoogleSQL = `
	INSERT INTO users (id, name, email, google_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (google_id) DO UPDATE SET
		name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE users.name END,
		email = COALESCE(excluded.email, users.email),
		updated_at = excluded.updated_at
`

// MySQL has no conflict target: ON DUPLICATE KEY UPDATE fires for whichever
// unique key collided, which may be the email of a local account. The
// google_id assignment runs first and links that account only when the last
// parameter (email verified) is true; the remaining assignments only touch
// the row once it carries this google_id.
const upsertGoogleMySQL = `
	INSERT INTO users (id, name, email, google_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		google_id = IF(google_id IS NULL AND ?, VALUES(google_id), google_id),
		name = IF(google_id = VALUES(google_id) AND VALUES(name) <> '', VALUES(name), name),
		email = IF(google_id = VALUES(google_id), COALESCE(VALUES(email), email), email),
		updated_at = IF(google_id = VALUES(google_id), VALUES(updated_at), updated_at)
`

// UpsertGoogle creates or refreshes the user bound to a Google subject in a
// single statement. When the email already belongs to a local account with
// no Google id, the account is linked if the provider verified the email;
// otherwise ErrDuplicateEmail is returned.
func (s *UserStore) UpsertGoogle(ctx context.Context, ident GoogleIdentity) (*User, error) {
	if ident.Subject == "" {
		return nil, errors.New("upsert google user: empty subject")
	}
	id := newID()
	now := time.Now().UTC()
	email := nullString(ident.Email)

	var err error
	if s.db.DriverName() == "mysql" {
		_, err = s.db.ExecContext(ctx, upsertGoogleMySQL,
			id, ident.Name, email, ident.Subject, now, now, ident.EmailVerified)
	} else {
		_, err = s.db.ExecContext(ctx, s.q(upsertGoogleSQL),
			id, ident.Name, email, ident.Subject, now, now)
	}
	if err != nil {
		if violates(err, "email") {
			return s.linkGoogle(ctx, ident, now)
		}
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("upsert google user: %w", err)
	}

	u, err := s.getByGoogleID(ctx, ident.Subject)
	if errors.Is(err, ErrNotFound) {
		// MySQL path: the email row belongs to someone this identity may not claim.
		return nil, ErrDuplicateEmail
	}
	return u, err
}

// linkGoogle attaches a Google subject to the local account owning the email.
// The WHERE clause makes this a single conditional write.
func (s *UserStore) linkGoogle(ctx context.Context, ident GoogleIdentity, now time.Time) (*User, error) {
	if !ident.EmailVerified {
		return nil, ErrDuplicateEmail
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users
		SET google_id = ?,
			name = CASE WHEN ? <> '' THEN ? ELSE name END,
			updated_at = ?
		WHERE email = ? AND google_id IS NULL
	`), ident.Subject, ident.Name, ident.Name, now, ident.Email)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("link google user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("link google user: %w", err)
	}
	if n == 0 {
		return nil, ErrDuplicateEmail
	}
	return s.getByGoogleID(ctx, ident.Subject)
}
