package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Stored passwords come in two shapes: bcrypt hashes written by this
// service, and raw plaintext left behind by the legacy role tables.
// DetectPassword classifies a stored value exactly once, at read time, so
// verification and migration logic never re-inspect raw prefixes.

// bcrypt hash prefixes recognized as "already migrated".
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// PasswordValue is a stored password tagged with its representation.
type PasswordValue struct {
	raw    string
	hashed bool
}

// DetectPassword classifies a stored password column value.
func DetectPassword(stored string) PasswordValue {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return PasswordValue{raw: stored, hashed: true}
		}
	}
	return PasswordValue{raw: stored, hashed: false}
}

// Hashed reports whether the stored value is a recognized bcrypt hash.
func (p PasswordValue) Hashed() bool { return p.hashed }

// String returns the stored value as written in the database.
func (p PasswordValue) String() string { return p.raw }

// Verify compares a supplied plaintext password against the stored value.
// Hashed values use bcrypt's comparison; plaintext values use a
// constant-time byte comparison.
func (p PasswordValue) Verify(plain string) bool {
	if p.hashed {
		return bcrypt.CompareHashAndPassword([]byte(p.raw), []byte(plain)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(p.raw), []byte(plain)) == 1
}

// HashPassword returns a bcrypt hash of plain using the given cost. Costs
// outside bcrypt's supported range fall back to the library default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
