package authkit

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// UserType is the role an identity plays on the platform
type UserType = string

const (
	// UserTypeJobSeeker browses and applies to postings
	UserTypeJobSeeker UserType = "job_seeker"
	// UserTypeJobCreator publishes postings and reviews applicants
	UserTypeJobCreator UserType = "job_creator"
)

// Provider identifies the channel an identity authenticated through
type Provider = string

const (
	// ProviderEmail is the password based channel
	ProviderEmail Provider = "email"
	// ProviderGoogle is the simulated Google channel
	ProviderGoogle Provider = "google"
	// ProviderGithub is the simulated GitHub channel
	ProviderGithub Provider = "github"
	// ProviderLinkedin is the simulated LinkedIn channel
	ProviderLinkedin Provider = "linkedin"
)

// SocialProviders lists the providers accepted by LoginWithProvider
var SocialProviders = []Provider{ProviderGoogle, ProviderGithub, ProviderLinkedin}

// IsSocialProvider reports whether name is one of the accepted social channels
func IsSocialProvider(name string) bool {
	for _, p := range SocialProviders {
		if p == name {
			return true
		}
	}
	return false
}

// Identity is the user record held by the Directory and persisted by the
// SessionStore. The JSON field names are the persisted wire format; do not
// rename them without migrating stored sessions.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:idn"`
	ID            string    `bun:"id,pk" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Name          string    `bun:"name,notnull" json:"name"`
	Type          UserType  `bun:"user_type,notnull" json:"type"`
	Avatar        string    `bun:"avatar" json:"avatar,omitempty"`
	Provider      Provider  `bun:"provider,notnull" json:"provider"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
	LastLogin     time.Time `bun:"last_login,notnull" json:"lastLogin"`
}

// Clone returns a copy so callers can stamp fields without mutating the
// Directory's record in place.
func (i Identity) Clone() *Identity {
	c := i
	return &c
}

// AvatarURL builds the placeholder avatar used for social identities
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + name + "&background=3B82F6&color=fff"
}

// ProviderDisplayName derives a human readable name from a provider slug,
// e.g. "github" becomes "Github User".
func ProviderDisplayName(provider Provider) string {
	if provider == "" {
		return "User"
	}
	return strings.ToUpper(provider[:1]) + provider[1:] + " User"
}

// SeedIdentities returns the accounts the platform ships with. The Directory
// starts from these on every process start; they are not persisted.
func SeedIdentities(now time.Time) []*Identity {
	return []*Identity{
		{
			ID:        "1",
			Email:     "john@example.com",
			Name:      "John Doe",
			Type:      UserTypeJobSeeker,
			Provider:  ProviderEmail,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastLogin: now,
		},
		{
			ID:        "2",
			Email:     "jane@company.com",
			Name:      "Jane Smith",
			Type:      UserTypeJobCreator,
			Provider:  ProviderEmail,
			CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			LastLogin: now,
		},
		{
			ID:        "3",
			Email:     "demo@rezume.com",
			Name:      "Demo User",
			Type:      UserTypeJobSeeker,
			Provider:  ProviderEmail,
			CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			LastLogin: now,
		},
	}
}
