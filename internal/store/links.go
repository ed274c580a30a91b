package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Link is a row in the links table.
type Link struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Title     string    `db:"title"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LinkEntry is the portable title/url pair used by backup and restore.
type LinkEntry struct {
	Title string `db:"title"`
	URL   string `db:"url"`
}

// LinkStore reads and writes links. Every method takes the owner id and
// adds it to the WHERE clause; a link owned by someone else is reported as
// ErrNotFound, exactly like a missing one.
type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *LinkStore) q(query string) string { return s.db.Rebind(query) }

// ListByOwner returns all links owned by ownerID ordered by id.
func (s *LinkStore) ListByOwner(ctx context.Context, ownerID string) ([]*Link, error) {
	links := []*Link{}
	err := s.db.SelectContext(ctx, &links, s.q(`
		SELECT * FROM links WHERE owner_id = ? ORDER BY id ASC
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// ListEntries returns the title/url pairs owned by ownerID ordered by id.
func (s *LinkStore) ListEntries(ctx context.Context, ownerID string) ([]LinkEntry, error) {
	entries := []LinkEntry{}
	err := s.db.SelectContext(ctx, &entries, s.q(`
		SELECT title, url FROM links WHERE owner_id = ? ORDER BY id ASC
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list link entries: %w", err)
	}
	return entries, nil
}

// GetByID returns the link with id if ownerID owns it, or ErrNotFound.
func (s *LinkStore) GetByID(ctx context.Context, ownerID, id string) (*Link, error) {
	return getOwned(ctx, s.db, ownerID, id)
}

// Create inserts a link owned by ownerID.
func (s *LinkStore) Create(ctx context.Context, ownerID, title, url string) (*Link, error) {
	id := newID()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO links (id, owner_id, title, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, ownerID, title, url, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return s.GetByID(ctx, ownerID, id)
}

// CreateBatch inserts all entries for ownerID in one transaction using a
// single multi-row INSERT.
func (s *LinkStore) CreateBatch(ctx context.Context, ownerID string, entries []LinkEntry) ([]*Link, error) {
	if len(entries) == 0 {
		return []*Link{}, nil
	}

	now := time.Now().UTC()
	rows := make([]*Link, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &Link{
			ID:        newID(),
			OwnerID:   ownerID,
			Title:     e.Title,
			URL:       e.URL,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO links (id, owner_id, title, url, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :url, :created_at, :updated_at)
	`, rows)
	if err != nil {
		return nil, fmt.Errorf("insert links: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return rows, nil
}

// Update replaces title and url of a link owned by ownerID.
func (s *LinkStore) Update(ctx context.Context, ownerID, id, title, url string) (*Link, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := getOwned(ctx, tx, ownerID, id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE links SET title = ?, url = ?, updated_at = ? WHERE id = ? AND owner_id = ?
	`), title, url, now, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}

	link, err := getOwned(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return link, nil
}

// Delete removes a link owned by ownerID and returns it as it was.
func (s *LinkStore) Delete(ctx context.Context, ownerID, id string) (*Link, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	link, err := getOwned(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		DELETE FROM links WHERE id = ? AND owner_id = ?
	`), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("delete link: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return link, nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	Rebind(query string) string
}

func getOwned(ctx context.Context, q queryer, ownerID, id string) (*Link, error) {
	var l Link
	err := q.GetContext(ctx, &l, q.Rebind(`
		SELECT * FROM links WHERE id = ? AND owner_id = ?
	`), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select link: %w", err)
	}
	return &l, nil
}
