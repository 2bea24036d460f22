package authkit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rezume/authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, store authkit.SessionStore) *authkit.Manager {
	t.Helper()

	if store == nil {
		store = authkit.NewMemorySessionStore()
	}

	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(testClock)...)
	return authkit.NewManager(directory, store, []authkit.AuthenticatorOption{
		authkit.WithLatency(0, 0),
		authkit.WithClock(func() time.Time { return testClock }),
		authkit.WithLogger(testLogger{}),
	}, authkit.WithManagerLogger(testLogger{}))
}

func TestManagerStartsUnauthenticated(t *testing.T) {
	manager := newTestManager(t, nil)

	state := manager.State()
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestManagerRestoresPersistedSession(t *testing.T) {
	store := authkit.NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), storedIdentity()))

	var sawLoading bool
	directory := authkit.NewMemoryDirectory(authkit.SeedIdentities(testClock)...)
	manager := authkit.NewManager(directory, store, []authkit.AuthenticatorOption{
		authkit.WithLatency(0, 0),
		authkit.WithLogger(testLogger{}),
	}, authkit.WithManagerLogger(testLogger{}))

	unsubscribe := manager.Subscribe(func(s authkit.State) {
		if s.IsLoading {
			sawLoading = true
		}
	})
	defer unsubscribe()

	assert.True(t, manager.IsAuthenticated())
	assert.Equal(t, "jane@company.com", manager.User().Email)
	assert.False(t, manager.IsLoading())
	assert.False(t, sawLoading, "restored sessions bypass the loading phase")
}

func TestManagerRestoreSkipsMalformedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rezume_user.json")
	store := authkit.NewFileSessionStore(path).WithLogger(testLogger{})
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o600))

	manager := newTestManager(t, store)

	assert.False(t, manager.IsAuthenticated())
	assert.Empty(t, manager.ErrorMessage(), "decode failures are recovered silently")
}

func TestManagerRestoreSkipsNullRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rezume_user.json")
	store := authkit.NewFileSessionStore(path).WithLogger(testLogger{})
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	manager := newTestManager(t, store)

	assert.False(t, manager.IsAuthenticated())
	assert.Nil(t, manager.User())
}

func TestManagerScenario(t *testing.T) {
	store := authkit.NewMemorySessionStore()
	manager := newTestManager(t, store)
	ctx := context.Background()

	// john logs in
	require.NoError(t, manager.Login(ctx, authkit.LoginCredentials{
		Email:    "john@example.com",
		Password: "password123",
	}))
	require.True(t, manager.IsAuthenticated())
	assert.Equal(t, authkit.UserTypeJobSeeker, manager.User().Type)

	// round-trip law: the persisted record matches the state's identity
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assertSameIdentity(t, manager.User(), persisted)

	// jane fails the password policy
	err = manager.Login(ctx, authkit.LoginCredentials{
		Email:    "jane@company.com",
		Password: "short",
	})
	require.ErrorIs(t, err, authkit.ErrInvalidPassword)
	assert.False(t, manager.IsAuthenticated())
	assert.Equal(t,
		"Invalid password. Password must be at least 6 characters.",
		manager.ErrorMessage(),
	)

	// jane's email is already taken
	err = manager.Signup(ctx, authkit.SignupCredentials{
		Name:            "Jane Again",
		Email:           "jane@company.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		UserType:        authkit.UserTypeJobCreator,
	})
	require.ErrorIs(t, err, authkit.ErrIdentityExists)

	// github login succeeds regardless
	require.NoError(t, manager.LoginWithProvider(ctx, authkit.ProviderGithub))
	assert.Equal(t, "user@github.com", manager.User().Email)
	assert.Equal(t, authkit.UserTypeJobSeeker, manager.User().Type)
	assert.Empty(t, manager.ErrorMessage(), "success clears the previous error")
}

func TestManagerLogout(t *testing.T) {
	store := authkit.NewMemorySessionStore()
	manager := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, manager.Login(ctx, authkit.LoginCredentials{
		Email:    "john@example.com",
		Password: "password123",
	}))
	require.True(t, manager.IsAuthenticated())

	require.NoError(t, manager.Logout(ctx))

	state := manager.State()
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, persisted, "logout clears the persisted slot")
}

func TestManagerClearError(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()

	_ = manager.Login(ctx, authkit.LoginCredentials{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.NotEmpty(t, manager.ErrorMessage())

	manager.ClearError()
	assert.Empty(t, manager.ErrorMessage())
}

func TestManagerSubscribe(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()

	var snapshots []authkit.State
	unsubscribe := manager.Subscribe(func(s authkit.State) {
		snapshots = append(snapshots, s)
	})

	require.NoError(t, manager.Login(ctx, authkit.LoginCredentials{
		Email:    "john@example.com",
		Password: "password123",
	}))

	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].IsLoading)
	assert.True(t, snapshots[1].IsAuthenticated)

	unsubscribe()
	require.NoError(t, manager.Logout(ctx))
	assert.Len(t, snapshots, 2, "unsubscribed listeners see no further transitions")
}

func TestManagerStateReturnsCopy(t *testing.T) {
	manager := newTestManager(t, nil)
	ctx := context.Background()

	require.NoError(t, manager.Login(ctx, authkit.LoginCredentials{
		Email:    "john@example.com",
		Password: "password123",
	}))

	snapshot := manager.State()
	snapshot.User.Name = "mutated"

	assert.Equal(t, "John Doe", manager.User().Name)
}

func TestNewFromConfig(t *testing.T) {
	cfg := authkit.NewDefaultConfig("test-signing-key")
	cfg.SessionPath = filepath.Join(t.TempDir(), "rezume_user.json")
	cfg.LoginLatency = 0
	cfg.ProviderLatency = 0

	manager := authkit.NewFromConfig(cfg, authkit.WithManagerLogger(testLogger{}))
	ctx := context.Background()

	require.NoError(t, manager.Login(ctx, authkit.LoginCredentials{
		Email:    "demo@rezume.com",
		Password: "password123",
	}))
	assert.True(t, manager.IsAuthenticated())
}
