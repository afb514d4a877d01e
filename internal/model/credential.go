package model

import (
	"database/sql"
	"time"
)

// Role names stored on login credentials and embedded in JWT claims.
// Admin profiles unify as superadmin; supervisors and clients keep their
// source role; suppliers exist only in the unified store.
const (
	RoleSuperAdmin = "superadmin"
	RoleSupervisor = "supervisor"
	RoleClient     = "client"
	RoleSupplier   = "supplier"
)

// LoginCredential is the canonical identity record in the
// `login_credentials` table. Accounts that predate the unified store are
// synthesized into this table the first time they log in; until their
// first successful login the Password column may still hold a legacy
// plaintext value awaiting migration.
//
// Invariants: at least one of Email/Username is set; Email and Username
// each carry a unique key so concurrent synthesis cannot duplicate an
// identity.
type LoginCredential struct {
	ID        uint64         // login_credentials.id
	Email     sql.NullString // login_credentials.email (nullable, unique)
	Username  sql.NullString // login_credentials.username (nullable, unique)
	Password  string         // bcrypt hash, or plaintext awaiting migration
	Role      string         // one of the Role* constants
	ProfileID uint64         // id of the originating role-specific profile row
	Name      string         // display name copied from the profile
	CreatedAt time.Time      // login_credentials.created_at
	UpdatedAt time.Time      // login_credentials.updated_at
}

// RefreshToken models a row in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID           uint64     // refresh_tokens.id
	CredentialID uint64     // refresh_tokens.credential_id
	TokenHash    string     // SHA-256 hex digest of the raw token
	ExpiresAt    time.Time  // refresh_tokens.expires_at
	RevokedAt    *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt    time.Time  // refresh_tokens.created_at
}
