package authkit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Logger is the minimal logging surface used across the package
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserDirectory is the registry of known identities, queried by email.
// Implementations must keep email unique across Insert calls; callers that
// share one directory across concurrent sessions rely on it.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	Insert(ctx context.Context, identity *Identity) error
}

// SessionStore is the single persisted slot holding the active identity.
// Load returns (nil, nil) when the slot is empty; malformed content is
// cleared and also reported as empty.
type SessionStore interface {
	Save(ctx context.Context, identity *Identity) error
	Load(ctx context.Context) (*Identity, error)
	Clear(ctx context.Context) error
}

// Config holds authkit options
type Config interface {
	GetLoginLatency() time.Duration
	GetProviderLatency() time.Duration
	GetSessionPath() string
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetCookieName() string
}

// DefaultConfig is a plain struct Config for hosts without their own
// configuration layer.
type DefaultConfig struct {
	LoginLatency    time.Duration
	ProviderLatency time.Duration
	SessionPath     string
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	CookieName      string
}

// NewDefaultConfig returns a Config carrying the stock simulation values:
// one second password/signup latency, 1.5s provider latency, 72h tokens.
func NewDefaultConfig(signingKey string) *DefaultConfig {
	return &DefaultConfig{
		LoginLatency:    DefaultLoginLatency,
		ProviderLatency: DefaultProviderLatency,
		SessionPath:     "rezume_user.json",
		SigningKey:      signingKey,
		TokenExpiration: 72,
		Issuer:          "rezume",
		CookieName:      DefaultCookieName,
	}
}

func (c *DefaultConfig) GetLoginLatency() time.Duration    { return c.LoginLatency }
func (c *DefaultConfig) GetProviderLatency() time.Duration { return c.ProviderLatency }
func (c *DefaultConfig) GetSessionPath() string            { return c.SessionPath }
func (c *DefaultConfig) GetSigningKey() string             { return c.SigningKey }
func (c *DefaultConfig) GetTokenExpiration() int           { return c.TokenExpiration }
func (c *DefaultConfig) GetIssuer() string                 { return c.Issuer }
func (c *DefaultConfig) GetAudience() []string             { return c.Audience }
func (c *DefaultConfig) GetCookieName() string             { return c.CookieName }

var _ Config = (*DefaultConfig)(nil)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHKIT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHKIT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHKIT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHKIT "+newline(format), args...)
}

func newline(format string) string {
	if strings.HasSuffix(format, "\n") {
		return format
	}
	return format + "\n"
}
