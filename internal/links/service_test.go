package links_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/store"
	"github.com/mlluizdevtech/linkhub/internal/testutil"
)

type fixture struct {
	svc        *links.Service
	ana, bruno string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	ana, err := users.Create(ctx, "Ana", "ana@example.com", "h")
	require.NoError(t, err)
	bruno, err := users.Create(ctx, "Bruno", "bruno@example.com", "h")
	require.NoError(t, err)

	return &fixture{svc: links.NewService(store.NewLinkStore(db), nil), ana: ana.ID, bruno: bruno.ID}
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	var ve *store.ValidationError
	require.True(t, errors.As(err, &ve), "want *store.ValidationError, got %v", err)
	return ve.Field
}

func TestService_CreateTrimsAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.ana, "  Go  ", " https://go.dev ")
	require.NoError(t, err)
	assert.Equal(t, "Go", l.Title)
	assert.Equal(t, "https://go.dev", l.URL)

	_, err = f.svc.Create(ctx, f.ana, "", "https://go.dev")
	assert.Equal(t, "title", validationField(t, err))

	_, err = f.svc.Create(ctx, f.ana, "Go", "go.dev")
	assert.Equal(t, "url", validationField(t, err))

	list, err := f.svc.List(ctx, f.ana)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_UpdateRequiresBothFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.ana, "Go", "https://go.dev")
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.ana, l.ID, "Only title", "")
	assert.Equal(t, "url", validationField(t, err))

	_, err = f.svc.Update(ctx, f.ana, l.ID, "", "https://only.url")
	assert.Equal(t, "title", validationField(t, err))

	got, err := f.svc.Get(ctx, f.ana, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)
}

func TestService_CrossTenantLooksMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.ana, "Mine", "https://ana.example.com")
	require.NoError(t, err)

	_, errForeign := f.svc.Get(ctx, f.bruno, l.ID)
	_, errMissing := f.svc.Get(ctx, f.bruno, "no-such-id")
	assert.ErrorIs(t, errForeign, store.ErrNotFound)
	assert.Equal(t, errMissing, errForeign)

	_, err = f.svc.Update(ctx, f.bruno, l.ID, "Theirs", "https://bruno.example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.svc.Delete(ctx, f.bruno, l.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := f.svc.List(ctx, f.bruno)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_ImportDropsInvalidEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Import(ctx, f.ana, []links.Entry{
		{Title: "ok", URL: "https://a.com"},
		{Title: "", URL: "https://b.com"},
		{Title: "bad", URL: "not a url"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "ok", created[0].Title)

	list, err := f.svc.List(ctx, f.ana)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ImportEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Import(ctx, f.ana, nil)
	assert.ErrorIs(t, err, links.ErrEmptyImport)

	_, err = f.svc.Import(ctx, f.ana, []links.Entry{{Title: " ", URL: "https://x.com"}})
	assert.ErrorIs(t, err, links.ErrEmptyImport)
}

func TestService_ImportTooMany(t *testing.T) {
	f := newFixture(t)

	entries := make([]links.Entry, links.MaxImportEntries+1)
	for i := range entries {
		entries[i] = links.Entry{Title: fmt.Sprintf("l%d", i), URL: "https://example.com"}
	}
	_, err := f.svc.Import(context.Background(), f.ana, entries)
	assert.Equal(t, "links", validationField(t, err))
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, e := range []links.Entry{
		{Title: "One", URL: "https://one.example.com"},
		{Title: "Two", URL: "https://two.example.com"},
	} {
		_, err := f.svc.Create(ctx, f.ana, e.Title, e.URL)
		require.NoError(t, err)
	}

	backup, err := f.svc.Export(ctx, f.ana)
	require.NoError(t, err)
	require.Len(t, backup, 2)

	restored, err := f.svc.Import(ctx, f.bruno, backup)
	require.NoError(t, err)
	assert.Len(t, restored, 2)

	again, err := f.svc.Export(ctx, f.bruno)
	require.NoError(t, err)
	assert.Equal(t, backup, again)
}

func TestService_DeleteReturnsLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.ana, "Bye", "https://bye.example.com")
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, f.ana, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, deleted.ID)

	_, err = f.svc.Get(ctx, f.ana, l.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
