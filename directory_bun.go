package authkit

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// CreateIdentitiesSQL is the sqlite DDL for the durable directory table.
var CreateIdentitiesSQL = `CREATE TABLE IF NOT EXISTS identities (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	user_type TEXT NOT NULL,
	avatar TEXT,
	provider TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	last_login TIMESTAMP NOT NULL
);`

// BunDirectory is a UserDirectory backed by a bun database. It gives hosts a
// directory that survives restarts; the MemoryDirectory remains the stock
// process-lifetime behavior.
type BunDirectory struct {
	db     *bun.DB
	logger Logger
}

var _ UserDirectory = (*BunDirectory)(nil)

// NewBunDirectory builds a directory over db. The identities table must
// exist; see CreateIdentitiesTable.
func NewBunDirectory(db *bun.DB) *BunDirectory {
	if db == nil {
		panic("authkit: BunDirectory requires a bun.DB")
	}
	return &BunDirectory{
		db:     db,
		logger: defLogger{},
	}
}

func (d *BunDirectory) WithLogger(logger Logger) *BunDirectory {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// CreateIdentitiesTable creates the backing table if missing.
func CreateIdentitiesTable(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, CreateIdentitiesSQL); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create identities table")
	}
	return nil
}

// FindByEmail returns the identity registered under email, matching exactly.
func (d *BunDirectory) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	record := &Identity{}

	err := d.db.NewSelect().
		Model(record).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "directory query failed").
			WithMetadata(map[string]any{"email": email})
	}

	return record, nil
}

// Insert appends a new identity, preserving email uniqueness.
func (d *BunDirectory) Insert(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return goerrors.New("identity must not be nil", goerrors.CategoryBadInput)
	}

	_, err := d.db.NewInsert().
		Model(identity).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrIdentityExists.WithMetadata(map[string]any{
				"email": identity.Email,
			})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "directory insert failed").
			WithMetadata(map[string]any{"email": identity.Email})
	}

	return nil
}

// Seed inserts the given identities, skipping emails already present.
func (d *BunDirectory) Seed(ctx context.Context, identities ...*Identity) error {
	for _, identity := range identities {
		if identity == nil {
			continue
		}
		if err := d.Insert(ctx, identity); err != nil {
			if goerrors.Is(err, ErrIdentityExists) {
				continue
			}
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
