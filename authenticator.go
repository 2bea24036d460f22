package authkit

import (
	"context"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Dispatcher delivers an action into the session state machine.
type Dispatcher func(Action)

// MinPasswordLength is the whole password policy: Login accepts any password
// of at least this many characters for any known email. No stored secret is
// ever compared; this mirrors the simulated backend, not real verification.
var MinPasswordLength = 6

const (
	// DefaultLoginLatency models the network round trip of login and signup
	DefaultLoginLatency = 1000 * time.Millisecond
	// DefaultProviderLatency models the longer round trip of an OAuth exchange
	DefaultProviderLatency = 1500 * time.Millisecond
)

// Authenticator runs the three asynchronous flows. Every flow dispatches
// AUTH_START, waits the simulated latency, performs its logic against the
// Directory and Store, then resolves with AUTH_SUCCESS or AUTH_ERROR. Flow
// failures are both dispatched into state and returned to the caller.
type Authenticator struct {
	directory       UserDirectory
	store           SessionStore
	dispatch        Dispatcher
	now             func() time.Time
	loginLatency    time.Duration
	providerLatency time.Duration
	newID           func(now time.Time, email string) string
	logger          Logger
	activitySink    ActivitySink
}

// AuthenticatorOption customizes an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) {
		if clock != nil {
			a.now = clock
		}
	}
}

// WithLatency overrides the simulated round trip durations. Zero disables
// the wait entirely.
func WithLatency(login, provider time.Duration) AuthenticatorOption {
	return func(a *Authenticator) {
		a.loginLatency = login
		a.providerLatency = provider
	}
}

// WithLogger overrides the logger used for flow diagnostics.
func WithLogger(logger Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func WithActivitySink(sink ActivitySink) AuthenticatorOption {
	return func(a *Authenticator) {
		a.activitySink = normalizeActivitySink(sink)
	}
}

// WithDeterministicIDs derives new identity ids from the email via hashid
// instead of the default timestamp. Handy when a host wants stable ids
// across restarts of the in-memory directory.
func WithDeterministicIDs() AuthenticatorOption {
	return func(a *Authenticator) {
		a.newID = func(now time.Time, email string) string {
			if id, err := hashid.NewUUID(email); err == nil {
				return id.String()
			}
			return timestampID(now)
		}
	}
}

// NewAuthenticator returns a new Authenticator over the given collaborators.
func NewAuthenticator(directory UserDirectory, store SessionStore, dispatch Dispatcher, opts ...AuthenticatorOption) *Authenticator {
	if directory == nil {
		panic("authkit: Authenticator requires a UserDirectory")
	}
	if store == nil {
		panic("authkit: Authenticator requires a SessionStore")
	}
	if dispatch == nil {
		dispatch = func(Action) {}
	}

	a := &Authenticator{
		directory:       directory,
		store:           store,
		dispatch:        dispatch,
		now:             time.Now,
		loginLatency:    DefaultLoginLatency,
		providerLatency: DefaultProviderLatency,
		newID: func(now time.Time, _ string) string {
			return timestampID(now)
		},
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Login authenticates credentials against the Directory. The password check
// is the length policy only; any sufficiently long password passes for any
// registered email.
func (a *Authenticator) Login(ctx context.Context, credentials LoginCredentials) error {
	a.dispatch(AuthStart())

	if err := a.wait(ctx, a.loginLatency); err != nil {
		return a.fail(ctx, ActivityEventLoginFailure, credentials.Email, err)
	}

	identity, err := a.directory.FindByEmail(ctx, credentials.Email)
	if err != nil {
		if !goerrors.Is(err, ErrIdentityNotFound) {
			a.logger.Error("login directory lookup failed: %v", err)
			err = goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query directory")
		}
		return a.fail(ctx, ActivityEventLoginFailure, credentials.Email, err)
	}

	if len(credentials.Password) < MinPasswordLength {
		return a.fail(ctx, ActivityEventLoginFailure, credentials.Email, ErrInvalidPassword)
	}

	identity.LastLogin = a.now()

	if err := a.store.Save(ctx, identity); err != nil {
		return a.fail(ctx, ActivityEventLoginFailure, credentials.Email, err)
	}

	a.dispatch(AuthSuccess(identity))
	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		UserID:    identity.ID,
		Email:     identity.Email,
		Provider:  identity.Provider,
	})

	return nil
}

// Signup registers a fresh identity. Password/confirm equality is the
// caller's precondition (SignupCredentials.Validate); it is not re-checked
// here.
func (a *Authenticator) Signup(ctx context.Context, credentials SignupCredentials) error {
	a.dispatch(AuthStart())

	if err := a.wait(ctx, a.loginLatency); err != nil {
		return a.fail(ctx, ActivityEventSignupFailure, credentials.Email, err)
	}

	if _, err := a.directory.FindByEmail(ctx, credentials.Email); err == nil {
		return a.fail(ctx, ActivityEventSignupFailure, credentials.Email, ErrIdentityExists)
	} else if !goerrors.Is(err, ErrIdentityNotFound) {
		a.logger.Error("signup directory lookup failed: %v", err)
		err = goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query directory")
		return a.fail(ctx, ActivityEventSignupFailure, credentials.Email, err)
	}

	now := a.now()
	identity := &Identity{
		ID:        a.newID(now, credentials.Email),
		Email:     credentials.Email,
		Name:      credentials.Name,
		Type:      credentials.UserType,
		Provider:  ProviderEmail,
		CreatedAt: now,
		LastLogin: now,
	}

	if err := a.directory.Insert(ctx, identity); err != nil {
		return a.fail(ctx, ActivityEventSignupFailure, credentials.Email, err)
	}

	if err := a.store.Save(ctx, identity); err != nil {
		return a.fail(ctx, ActivityEventSignupFailure, credentials.Email, err)
	}

	a.dispatch(AuthSuccess(identity))
	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSignupSuccess,
		UserID:    identity.ID,
		Email:     identity.Email,
		Provider:  identity.Provider,
		Metadata:  map[string]any{"user_type": identity.Type},
	})

	return nil
}

// LoginWithProvider simulates a social exchange. It never consults the
// Directory: every call synthesizes a fresh job_seeker identity for the
// provider, so repeated calls silently re-register. That gap is part of the
// simulated contract.
func (a *Authenticator) LoginWithProvider(ctx context.Context, provider Provider) error {
	a.dispatch(AuthStart())

	if !IsSocialProvider(provider) {
		err := ErrUnknownProvider.WithMetadata(map[string]any{"provider": provider})
		return a.fail(ctx, ActivityEventLoginFailure, "", err)
	}

	if err := a.wait(ctx, a.providerLatency); err != nil {
		return a.fail(ctx, ActivityEventLoginFailure, "", err)
	}

	now := a.now()
	identity := &Identity{
		ID:        a.newID(now, "user@"+provider+".com"),
		Email:     "user@" + provider + ".com",
		Name:      ProviderDisplayName(provider),
		Type:      UserTypeJobSeeker,
		Avatar:    AvatarURL(provider),
		Provider:  provider,
		CreatedAt: now,
		LastLogin: now,
	}

	if err := a.store.Save(ctx, identity); err != nil {
		return a.fail(ctx, ActivityEventLoginFailure, identity.Email, err)
	}

	a.dispatch(AuthSuccess(identity))
	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSocialLogin,
		UserID:    identity.ID,
		Email:     identity.Email,
		Provider:  provider,
	})

	return nil
}

// wait suspends for the simulated round trip. Cancelling ctx resolves the
// flow early instead of leaving it pending past the caller's interest.
func (a *Authenticator) wait(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return nil
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "authentication cancelled")
	}
}

// fail resolves the flow as an error: the message lands in state for
// consumers that only watch snapshots, and the error is returned so direct
// callers can branch on it too.
func (a *Authenticator) fail(ctx context.Context, event ActivityEventType, email string, err error) error {
	a.dispatch(AuthError(FlowErrorMessage(err)))
	a.recordActivity(ctx, ActivityEvent{
		EventType: event,
		Email:     email,
		Metadata:  map[string]any{"error": err.Error()},
	})
	return err
}

func (a *Authenticator) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = a.now()
	}

	sink := normalizeActivitySink(a.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		a.logger.Warn("authenticator activity sink error: %v", err)
	}
}

func timestampID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
