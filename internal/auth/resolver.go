package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/damoah/buildflow/internal/model"
)

// Sentinel errors returned by Authenticate. Handlers map
// ErrMissingCredentials to 400 and ErrInvalidCredentials to 401; anything
// else is an internal fault and must surface as an opaque 500. The 401
// message never distinguishes "no such identity" from "wrong password".
var (
	ErrMissingCredentials = errors.New("email or username and password are required")
	ErrInvalidCredentials = errors.New("invalid email/username or password")
)

// CredentialStore is the unified login_credentials table as seen by the
// resolver. FindByIdentifier matches email or username case-insensitively
// and fully anchored, returning every candidate (historical data may hold
// duplicates). Insert must return ErrDuplicateIdentity when a unique key
// on email or username is violated.
type CredentialStore interface {
	FindByIdentifier(ctx context.Context, identifier string) ([]*model.LoginCredential, error)
	Insert(ctx context.Context, cred *model.LoginCredential) error
	UpdatePassword(ctx context.Context, id uint64, password string) error
}

// ErrDuplicateIdentity signals a unique-key violation on insert: a
// concurrent login synthesized the same identity first.
var ErrDuplicateIdentity = errors.New("identity already exists")

// LegacyMatch is the normalized shape of a row found in one of the legacy
// role tables. Every source produces this shape so the resolver never
// branches on which table matched.
type LegacyMatch struct {
	Email     string
	Username  string
	Password  string // hash or plaintext, as stored
	Role      string
	ProfileID uint64
	Name      string
}

// LegacySource is one pre-unification identity table. Find returns
// (nil, nil) when no row matches the identifier.
type LegacySource interface {
	Find(ctx context.Context, identifier string) (*LegacyMatch, error)
}

// Resolver authenticates an identifier/password pair against the unified
// credential store, falling back to the legacy sources in priority order,
// and migrates plaintext passwords to bcrypt on the way.
type Resolver struct {
	store      CredentialStore
	sources    []LegacySource // probed in order; first match wins
	bcryptCost int
}

// NewResolver builds a Resolver. Sources must be given in fallback
// priority order (admins, then supervisors, then clients).
func NewResolver(store CredentialStore, sources []LegacySource, bcryptCost int) *Resolver {
	return &Resolver{store: store, sources: sources, bcryptCost: bcryptCost}
}

// Authenticate resolves and verifies a login attempt.
//
// The identifier is trimmed; empty identifier or password fails with
// ErrMissingCredentials before any lookup. Candidates are gathered from
// the unified store; when none exist, the legacy sources are probed in
// order and the first match is synthesized into the unified store.
// Candidates are then verified in order: bcrypt comparison for hashed
// values, constant-time equality for plaintext values. A plaintext match
// is rewritten as a bcrypt hash before the call returns, so plaintext
// never survives a successful login. The returned credential has its
// Password field stripped.
func (r *Resolver) Authenticate(ctx context.Context, identifier, password string) (*model.LoginCredential, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	candidates, err := r.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("credential lookup: %w", err)
	}

	if len(candidates) == 0 {
		synthesized, err := r.synthesize(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if synthesized == nil {
			// No legacy source matched either. Same generic error as a
			// password mismatch so callers cannot probe for accounts.
			return nil, ErrInvalidCredentials
		}
		candidates = synthesized
	}

	for _, cand := range candidates {
		stored := DetectPassword(cand.Password)
		if !stored.Verify(password) {
			continue
		}
		if !stored.Hashed() {
			// Hash upgrade: replace the matched plaintext value before the
			// request completes.
			hash, err := HashPassword(password, r.bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash upgrade: %w", err)
			}
			if err := r.store.UpdatePassword(ctx, cand.ID, hash); err != nil {
				return nil, fmt.Errorf("persist hash upgrade: %w", err)
			}
			cand.Password = hash
		}
		out := *cand
		out.Password = ""
		return &out, nil
	}
	return nil, ErrInvalidCredentials
}

// synthesize probes the legacy sources in priority order and persists a
// unified credential for the first match. It returns nil, nil when no
// source matches. A duplicate-key error on insert means a concurrent
// login won the race; the store is re-read and its candidates returned.
func (r *Resolver) synthesize(ctx context.Context, identifier string) ([]*model.LoginCredential, error) {
	var match *LegacyMatch
	for _, src := range r.sources {
		m, err := src.Find(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("legacy lookup: %w", err)
		}
		if m != nil {
			match = m
			break
		}
	}
	if match == nil {
		return nil, nil
	}

	// Keep an existing hash as-is; hash a plaintext legacy password now so
	// the unified record is born migrated.
	password := match.Password
	if !DetectPassword(password).Hashed() {
		hash, err := HashPassword(password, r.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash legacy password: %w", err)
		}
		password = hash
	}

	cred := &model.LoginCredential{
		Email:     nullString(match.Email),
		Username:  nullString(match.Username),
		Password:  password,
		Role:      match.Role,
		ProfileID: match.ProfileID,
		Name:      match.Name,
	}
	if err := r.store.Insert(ctx, cred); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			refetched, ferr := r.store.FindByIdentifier(ctx, identifier)
			if ferr != nil {
				return nil, fmt.Errorf("refetch after duplicate: %w", ferr)
			}
			return refetched, nil
		}
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	return []*model.LoginCredential{cred}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
