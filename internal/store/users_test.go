package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlluizdevtech/linkhub/internal/store"
	"github.com/mlluizdevtech/linkhub/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	return store.NewUserStore(testutil.NewTestDB(t))
}

func TestUserStore_CreateAndGet(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "Alice", "alice@example.com", "$2a$10$hash")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email.String)
	assert.True(t, u.HasPassword())
	assert.False(t, u.GoogleID.Valid)

	byEmail, err := us.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := us.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
}

func TestUserStore_GetMissing(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = us.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStore_CreateDuplicateEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.Create(ctx, "Alice", "alice@example.com", "h1")
	require.NoError(t, err)

	_, err = us.Create(ctx, "Alice Again", "alice@example.com", "h2")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUserStore_ConcurrentCreateSameEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = us.Create(ctx, "Racer", "race@example.com", "h")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, store.ErrDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestUserStore_UpsertGoogle_CreatesThenRefreshes(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	first, err := us.UpsertGoogle(ctx, store.GoogleIdentity{
		Subject: "g-123", Name: "Gina", Email: "gina@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "g-123", first.GoogleID.String)
	assert.False(t, first.HasPassword())

	again, err := us.UpsertGoogle(ctx, store.GoogleIdentity{
		Subject: "g-123", Name: "Gina G.", Email: "gina@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Gina G.", again.Name)
}

func TestUserStore_UpsertGoogle_KeepsNameWhenBlank(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.UpsertGoogle(ctx, store.GoogleIdentity{Subject: "g-1", Name: "Named", Email: "n@example.com"})
	require.NoError(t, err)

	u, err := us.UpsertGoogle(ctx, store.GoogleIdentity{Subject: "g-1", Email: "n@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Named", u.Name)
}

func TestUserStore_UpsertGoogle_LinksVerifiedEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	local, err := us.Create(ctx, "Lee", "lee@example.com", "hash")
	require.NoError(t, err)

	linked, err := us.UpsertGoogle(ctx, store.GoogleIdentity{
		Subject: "g-lee", Name: "Lee G", Email: "lee@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, local.ID, linked.ID)
	assert.Equal(t, "g-lee", linked.GoogleID.String)
	assert.True(t, linked.HasPassword(), "linking keeps the local password")
}

func TestUserStore_UpsertGoogle_RefusesUnverifiedEmail(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.Create(ctx, "Lee", "lee@example.com", "hash")
	require.NoError(t, err)

	_, err = us.UpsertGoogle(ctx, store.GoogleIdentity{
		Subject: "g-lee", Email: "lee@example.com", EmailVerified: false,
	})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	u, err := us.GetByEmail(ctx, "lee@example.com")
	require.NoError(t, err)
	assert.False(t, u.GoogleID.Valid)
}

func TestUserStore_UpsertGoogle_EmailOwnedByOtherSubject(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.UpsertGoogle(ctx, store.GoogleIdentity{Subject: "g-a", Email: "shared@example.com", EmailVerified: true})
	require.NoError(t, err)

	_, err = us.UpsertGoogle(ctx, store.GoogleIdentity{Subject: "g-b", Email: "shared@example.com", EmailVerified: true})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUserStore_UpsertGoogle_EmptySubject(t *testing.T) {
	us := newUserStore(t)
	_, err := us.UpsertGoogle(context.Background(), store.GoogleIdentity{Email: "x@example.com"})
	assert.Error(t, err)
}
