// Package links implements the link operations available to an
// authenticated principal. Every method takes the owner id from the
// caller's principal; there is no way to address another owner's links.
package links

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mlluizdevtech/linkhub/internal/metrics"
	"github.com/mlluizdevtech/linkhub/internal/store"
)

// MaxImportEntries bounds a single restore request.
const MaxImportEntries = 1000

// ErrEmptyImport is returned when no entry of an import survives validation.
var ErrEmptyImport = errors.New("no valid links to import")

// Entry is the portable form of a link used by backup and restore.
type Entry = store.LinkEntry

// Service applies validation and ownership scoping on top of the link store.
type Service struct {
	links  *store.LinkStore
	logger *slog.Logger
}

func NewService(links *store.LinkStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{links: links, logger: logger}
}

// List returns the owner's links in creation order.
func (s *Service) List(ctx context.Context, ownerID string) ([]*store.Link, error) {
	return s.links.ListByOwner(ctx, ownerID)
}

// Create validates and stores a new link.
func (s *Service) Create(ctx context.Context, ownerID, title, url string) (*store.Link, error) {
	title, url = clean(title, url)
	if err := store.ValidateLink(title, url); err != nil {
		return nil, err
	}
	return s.links.Create(ctx, ownerID, title, url)
}

// Get returns one link, or store.ErrNotFound if it is missing or owned by
// someone else.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*store.Link, error) {
	return s.links.GetByID(ctx, ownerID, id)
}

// Update replaces title and url; both are required.
func (s *Service) Update(ctx context.Context, ownerID, id, title, url string) (*store.Link, error) {
	title, url = clean(title, url)
	if err := store.ValidateLink(title, url); err != nil {
		return nil, err
	}
	return s.links.Update(ctx, ownerID, id, title, url)
}

// Delete removes a link and returns it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (*store.Link, error) {
	return s.links.Delete(ctx, ownerID, id)
}

// Export returns the owner's links as title/url pairs.
func (s *Service) Export(ctx context.Context, ownerID string) ([]Entry, error) {
	return s.links.ListEntries(ctx, ownerID)
}

// Import validates each entry on its own, silently drops the invalid ones
// and inserts the rest in one transaction.
func (s *Service) Import(ctx context.Context, ownerID string, entries []Entry) ([]*store.Link, error) {
	if len(entries) > MaxImportEntries {
		return nil, store.Invalid("links", "at most 1000 links can be imported at once")
	}

	valid := make([]Entry, 0, len(entries))
	for _, e := range entries {
		title, url := clean(e.Title, e.URL)
		if store.ValidateLink(title, url) != nil {
			continue
		}
		valid = append(valid, Entry{Title: title, URL: url})
	}
	dropped := len(entries) - len(valid)
	metrics.LinksDroppedTotal.Add(float64(dropped))
	if len(valid) == 0 {
		return nil, ErrEmptyImport
	}

	created, err := s.links.CreateBatch(ctx, ownerID, valid)
	if err != nil {
		return nil, err
	}
	metrics.LinksImportedTotal.Add(float64(len(created)))
	s.logger.InfoContext(ctx, "links imported", "owner_id", ownerID, "imported", len(created), "dropped", dropped)
	return created, nil
}

func clean(title, url string) (string, string) {
	return strings.TrimSpace(title), strings.TrimSpace(url)
}
