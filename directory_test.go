package authkit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rezume/authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDirectoryFindByEmail(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(now)...)
	ctx := context.Background()

	identity, err := directory.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", identity.ID)
	assert.Equal(t, "John Doe", identity.Name)
	assert.Equal(t, authkit.UserTypeJobSeeker, identity.Type)

	_, err = directory.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, authkit.ErrIdentityNotFound)

	// exact match only
	_, err = directory.FindByEmail(ctx, "JOHN@EXAMPLE.COM")
	assert.ErrorIs(t, err, authkit.ErrIdentityNotFound)
}

func TestMemoryDirectoryFindReturnsCopy(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(now)...)
	ctx := context.Background()

	first, err := directory.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := directory.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", second.Name)
}

func TestMemoryDirectoryInsert(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(now)...)
	ctx := context.Background()

	newcomer := &authkit.Identity{
		ID:        "1717243200000",
		Email:     "amy@startup.io",
		Name:      "Amy Lee",
		Type:      authkit.UserTypeJobCreator,
		Provider:  authkit.ProviderEmail,
		CreatedAt: now,
		LastLogin: now,
	}

	require.NoError(t, directory.Insert(ctx, newcomer))
	assert.Equal(t, 4, directory.Len())

	found, err := directory.FindByEmail(ctx, "amy@startup.io")
	require.NoError(t, err)
	assert.Equal(t, authkit.UserTypeJobCreator, found.Type)
}

func TestMemoryDirectoryInsertRejectsDuplicateEmail(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(now)...)
	ctx := context.Background()

	dupe := &authkit.Identity{
		ID:        "999",
		Email:     "jane@company.com",
		Name:      "Other Jane",
		Type:      authkit.UserTypeJobSeeker,
		Provider:  authkit.ProviderEmail,
		CreatedAt: now,
		LastLogin: now,
	}

	err := directory.Insert(ctx, dupe)
	assert.ErrorIs(t, err, authkit.ErrIdentityExists)
	assert.Equal(t, 3, directory.Len(), "failed insert must not grow the directory")
}

func TestMemoryDirectoryInsertRejectsNil(t *testing.T) {
	directory := authkit.NewMemoryDirectory()
	assert.Error(t, directory.Insert(context.Background(), nil))
}

func TestMemoryDirectorySerializesConcurrentInserts(t *testing.T) {
	directory := authkit.NewMemoryDirectory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = directory.Insert(ctx, &authkit.Identity{
				ID:    fmt.Sprintf("id-%d", n),
				Email: "same@example.com",
				Name:  "Racer",
				Type:  authkit.UserTypeJobSeeker,
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, directory.Len(), "email uniqueness must survive concurrent inserts")
}
