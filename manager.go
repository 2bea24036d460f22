package authkit

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Manager is the single handle consumers hold: it owns the session state
// machine, wires the Directory, Store, and flows together, and restores the
// persisted session once at construction. One Manager serves one logical
// session; independent sessions get independent Managers.
type Manager struct {
	stateMu     sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int

	// flows are serialized so a login racing a provider login cannot
	// interleave AUTH_START with the other flow's resolution
	flowMu sync.Mutex

	directory UserDirectory
	store     SessionStore
	auth      *Authenticator
	logger    Logger
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithManagerLogger overrides the Manager's logger.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager wires a Manager over the given Directory and Store. The
// persisted session is restored here, before the Manager is returned: a valid
// record becomes an immediate AUTH_SUCCESS with no loading phase, so
// restored sessions never observe IsLoading.
func NewManager(directory UserDirectory, store SessionStore, authOpts []AuthenticatorOption, opts ...ManagerOption) *Manager {
	if directory == nil {
		panic("authkit: Manager requires a UserDirectory")
	}
	if store == nil {
		panic("authkit: Manager requires a SessionStore")
	}

	m := &Manager{
		state:       InitialState(),
		subscribers: map[int]func(State){},
		directory:   directory,
		store:       store,
		logger:      defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	m.auth = NewAuthenticator(directory, store, m.dispatch, authOpts...)

	m.restore(context.Background())

	return m
}

// NewFromConfig assembles the stock wiring: a seeded in-memory directory, a
// file-backed session slot at cfg.GetSessionPath(), and the configured
// simulated latencies.
func NewFromConfig(cfg Config, opts ...ManagerOption) *Manager {
	directory := NewMemoryDirectory(SeedIdentities(time.Now())...)
	store := NewFileSessionStore(cfg.GetSessionPath())

	authOpts := []AuthenticatorOption{
		WithLatency(cfg.GetLoginLatency(), cfg.GetProviderLatency()),
	}

	return NewManager(directory, store, authOpts, opts...)
}

// restore loads the persisted slot exactly once. Decode failures were
// already handled (and the slot cleared) by the store, so anything returned
// here is a valid session.
func (m *Manager) restore(ctx context.Context) {
	identity, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("session restore failed: %v", err)
		return
	}

	if identity == nil {
		return
	}

	m.dispatch(AuthSuccess(identity))
}

// dispatch runs the reducer and notifies subscribers with the new snapshot.
// Subscribers are invoked outside the state lock, in subscription order.
func (m *Manager) dispatch(action Action) {
	m.stateMu.Lock()
	m.state = Reduce(m.state, action)
	snapshot := m.state
	listeners := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		listeners = append(listeners, fn)
	}
	m.stateMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Login runs the password flow. The failure is visible both here and in
// State().Error.
func (m *Manager) Login(ctx context.Context, credentials LoginCredentials) error {
	m.flowMu.Lock()
	defer m.flowMu.Unlock()
	return m.auth.Login(ctx, credentials)
}

// Signup runs the registration flow.
func (m *Manager) Signup(ctx context.Context, credentials SignupCredentials) error {
	m.flowMu.Lock()
	defer m.flowMu.Unlock()
	return m.auth.Signup(ctx, credentials)
}

// LoginWithProvider runs the simulated social flow.
func (m *Manager) LoginWithProvider(ctx context.Context, provider Provider) error {
	m.flowMu.Lock()
	defer m.flowMu.Unlock()
	return m.auth.LoginWithProvider(ctx, provider)
}

// Logout clears the persisted slot and drops the session. It is synchronous:
// no simulated latency, no Directory interaction.
func (m *Manager) Logout(ctx context.Context) error {
	identity := m.User()

	if err := m.store.Clear(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session store")
	}

	m.dispatch(AuthLogout())

	if identity != nil {
		m.auth.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventLogout,
			UserID:    identity.ID,
			Email:     identity.Email,
			Provider:  identity.Provider,
		})
	}

	return nil
}

// ClearError dismisses the current error message.
func (m *Manager) ClearError() {
	m.dispatch(ClearError())
}

// State returns the current snapshot. The contained identity is a copy;
// mutating it does not touch the machine's state.
func (m *Manager) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	snapshot := m.state
	if snapshot.User != nil {
		snapshot.User = snapshot.User.Clone()
	}
	return snapshot
}

// User returns the authenticated identity, or nil.
func (m *Manager) User() *Identity {
	return m.State().User
}

// IsAuthenticated reports whether an identity is present.
func (m *Manager) IsAuthenticated() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state.IsAuthenticated
}

// IsLoading reports whether a flow is in flight.
func (m *Manager) IsLoading() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state.IsLoading
}

// ErrorMessage returns the current user facing error, or "".
func (m *Manager) ErrorMessage() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state.Error
}

// Subscribe registers fn to run after every transition with the fresh
// snapshot. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	m.stateMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.stateMu.Unlock()

	return func() {
		m.stateMu.Lock()
		delete(m.subscribers, id)
		m.stateMu.Unlock()
	}
}

// Authenticator exposes the underlying flows for hosts that dispatch into a
// Manager-owned machine from their own orchestration.
func (m *Manager) Authenticator() *Authenticator {
	return m.auth
}
