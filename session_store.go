package authkit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// MemorySessionStore keeps the session slot in process memory. Useful for
// tests and for hosts that do not want sessions to survive restarts.
type MemorySessionStore struct {
	mu     sync.Mutex
	record []byte
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore returns an empty in memory slot
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Save serializes identity into the slot
func (s *MemorySessionStore) Save(_ context.Context, identity *Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = payload
	return nil
}

// Load deserializes the slot, reporting absent on empty or malformed content.
// A record that decodes to no identity, a JSON null for one, counts as
// malformed. Unusable content is cleared so the next Load starts clean.
func (s *MemorySessionStore) Load(_ context.Context) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.record) == 0 {
		return nil, nil
	}

	identity := &Identity{}
	if err := json.Unmarshal(s.record, identity); err != nil || identity.ID == "" {
		s.record = nil
		return nil, nil
	}

	return identity, nil
}

// Clear empties the slot
func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}

// FileSessionStore persists the session slot as a single JSON file, the disk
// analogue of the browser's one well-known storage key.
type FileSessionStore struct {
	mu     sync.Mutex
	path   string
	logger Logger
}

var _ SessionStore = (*FileSessionStore)(nil)

// NewFileSessionStore builds a store writing to path
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{
		path:   path,
		logger: defLogger{},
	}
}

func (s *FileSessionStore) WithLogger(logger Logger) *FileSessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Save serializes identity and writes the slot file
func (s *FileSessionStore) Save(_ context.Context, identity *Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write session file").
			WithMetadata(map[string]any{"path": s.path})
	}

	return nil
}

// Load reads and deserializes the slot file. A missing file means no session;
// a file holding anything but an identity record is removed so a bad record
// cannot wedge startup forever.
func (s *FileSessionStore) Load(_ context.Context) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read session file").
			WithMetadata(map[string]any{"path": s.path})
	}

	identity := &Identity{}
	if err := json.Unmarshal(payload, identity); err != nil || identity.ID == "" {
		s.logger.Warn("clearing unusable session record")
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Error("failed to clear unusable session record: %v", rmErr)
		}
		return nil, nil
	}

	return identity, nil
}

// Clear removes the slot file
func (s *FileSessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session file").
			WithMetadata(map[string]any{"path": s.path})
	}

	return nil
}
