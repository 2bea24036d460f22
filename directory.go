package authkit

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// MemoryDirectory is the canonical in process UserDirectory. Its lifecycle is
// the process lifetime: it starts from the seed records and forgets every
// signup on restart.
type MemoryDirectory struct {
	mu         sync.RWMutex
	identities []*Identity
}

var _ UserDirectory = (*MemoryDirectory)(nil)

// NewMemoryDirectory builds a directory holding the given records. Pass
// SeedIdentities(time.Now()) to get the stock platform accounts.
func NewMemoryDirectory(identities ...*Identity) *MemoryDirectory {
	records := make([]*Identity, 0, len(identities))
	for _, identity := range identities {
		if identity != nil {
			records = append(records, identity.Clone())
		}
	}

	return &MemoryDirectory{identities: records}
}

// FindByEmail returns the identity registered under email, matching exactly.
func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, identity := range d.identities {
		if identity.Email == email {
			return identity.Clone(), nil
		}
	}

	return nil, ErrIdentityNotFound
}

// Insert appends a new identity, preserving email uniqueness.
func (d *MemoryDirectory) Insert(_ context.Context, identity *Identity) error {
	if identity == nil {
		return goerrors.New("identity must not be nil", goerrors.CategoryBadInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.identities {
		if existing.Email == identity.Email {
			return ErrIdentityExists.WithMetadata(map[string]any{
				"email": identity.Email,
			})
		}
	}

	d.identities = append(d.identities, identity.Clone())
	return nil
}

// Len reports how many identities the directory currently holds.
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.identities)
}
