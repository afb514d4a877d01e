package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/damoah/buildflow/internal/model"
)

// memStore is an in-memory CredentialStore mirroring the unique keys and
// case-insensitive matching of the real table.
type memStore struct {
	nextID  uint64
	creds   []*model.LoginCredential
	inserts int
	updates int

	findErr    error
	insertErr  error
	findMisses int // first N lookups report no candidates
}

func newMemStore() *memStore { return &memStore{nextID: 1} }

func matches(c *model.LoginCredential, ident string) bool {
	ident = strings.ToLower(ident)
	return (c.Email.Valid && strings.ToLower(c.Email.String) == ident) ||
		(c.Username.Valid && strings.ToLower(c.Username.String) == ident)
}

func (s *memStore) FindByIdentifier(ctx context.Context, identifier string) ([]*model.LoginCredential, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findMisses > 0 {
		s.findMisses--
		return nil, nil
	}
	var out []*model.LoginCredential
	for _, c := range s.creds {
		if matches(c, identifier) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, cred *model.LoginCredential) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserts++
	for _, c := range s.creds {
		if (cred.Email.Valid && matches(c, cred.Email.String)) ||
			(cred.Username.Valid && matches(c, cred.Username.String)) {
			return ErrDuplicateIdentity
		}
	}
	cred.ID = s.nextID
	s.nextID++
	cp := *cred
	s.creds = append(s.creds, &cp)
	return nil
}

func (s *memStore) UpdatePassword(ctx context.Context, id uint64, password string) error {
	s.updates++
	for _, c := range s.creds {
		if c.ID == id {
			c.Password = password
			return nil
		}
	}
	return errors.New("no such credential")
}

func (s *memStore) add(email, username, password, role string) *model.LoginCredential {
	c := &model.LoginCredential{
		ID:       s.nextID,
		Email:    nullString(email),
		Username: nullString(username),
		Password: password,
		Role:     role,
	}
	s.nextID++
	s.creds = append(s.creds, c)
	return c
}

// memSource is one legacy table with a single row.
type memSource struct {
	match *LegacyMatch
	err   error
	calls int
}

func (s *memSource) Find(ctx context.Context, identifier string) (*LegacyMatch, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.match == nil {
		return nil, nil
	}
	ident := strings.ToLower(strings.TrimSpace(identifier))
	if strings.ToLower(s.match.Email) == ident || strings.ToLower(s.match.Username) == ident {
		m := *s.match
		return &m, nil
	}
	return nil, nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := HashPassword(plain, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return h
}

func TestAuthenticateMissingInput(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("db must not be touched")
	r := NewResolver(store, nil, bcrypt.MinCost)

	for _, tc := range []struct{ ident, pass string }{
		{"", "pw"},
		{"   ", "pw"},
		{"user@site.com", ""},
		{"", ""},
	} {
		if _, err := r.Authenticate(context.Background(), tc.ident, tc.pass); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("Authenticate(%q, %q) = %v, want ErrMissingCredentials", tc.ident, tc.pass, err)
		}
	}
}

func TestAuthenticateHashedCredential(t *testing.T) {
	store := newMemStore()
	hash := mustHash(t, "pw123")
	store.add("boss@site.com", "boss", hash, model.RoleSuperAdmin)
	r := NewResolver(store, nil, bcrypt.MinCost)

	cred, err := r.Authenticate(context.Background(), "boss@site.com", "pw123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if cred.Password != "" {
		t.Fatalf("returned credential still carries a password")
	}
	if cred.Role != model.RoleSuperAdmin {
		t.Fatalf("role = %q", cred.Role)
	}
	if store.updates != 0 {
		t.Fatalf("hash was rewritten on a plain hashed login")
	}
}

func TestAuthenticateCaseInsensitiveAnchored(t *testing.T) {
	store := newMemStore()
	store.add("Boss@Site.com", "BossMan", mustHash(t, "pw"), model.RoleSuperAdmin)
	r := NewResolver(store, nil, bcrypt.MinCost)

	if _, err := r.Authenticate(context.Background(), "bOSS@site.COM", "pw"); err != nil {
		t.Fatalf("case-folded email rejected: %v", err)
	}
	if _, err := r.Authenticate(context.Background(), "  bossman  ", "pw"); err != nil {
		t.Fatalf("trimmed case-folded username rejected: %v", err)
	}
	// Substrings must not match.
	if _, err := r.Authenticate(context.Background(), "boss", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("partial identifier matched: %v", err)
	}
}

func TestAuthenticateUnknownIdentifier(t *testing.T) {
	store := newMemStore()
	empty := &memSource{}
	r := NewResolver(store, []LegacySource{empty}, bcrypt.MinCost)

	_, err := r.Authenticate(context.Background(), "nobody@site.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if store.inserts != 0 {
		t.Fatalf("credential synthesized for unknown identity")
	}
}

func TestAuthenticateWrongPasswordSameError(t *testing.T) {
	store := newMemStore()
	store.add("boss@site.com", "", mustHash(t, "right"), model.RoleSuperAdmin)
	r := NewResolver(store, nil, bcrypt.MinCost)

	_, wrongPass := r.Authenticate(context.Background(), "boss@site.com", "wrong")
	_, noUser := r.Authenticate(context.Background(), "ghost@site.com", "wrong")
	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("wrongPass=%v noUser=%v, want identical sentinel", wrongPass, noUser)
	}
}

func TestAuthenticateSynthesizesFromLegacy(t *testing.T) {
	store := newMemStore()
	src := &memSource{match: &LegacyMatch{
		Email:     "site.lead@site.com",
		Username:  "sitelead",
		Password:  "plain-legacy",
		Role:      model.RoleSupervisor,
		ProfileID: 7,
		Name:      "Site Lead",
	}}
	r := NewResolver(store, []LegacySource{src}, bcrypt.MinCost)

	cred, err := r.Authenticate(context.Background(), "sitelead", "plain-legacy")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if cred.Role != model.RoleSupervisor || cred.ProfileID != 7 {
		t.Fatalf("synthesized credential wrong: %+v", cred)
	}
	if store.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", store.inserts)
	}
	stored := store.creds[0]
	if !DetectPassword(stored.Password).Hashed() {
		t.Fatalf("synthesized credential stored with plaintext password")
	}
	if !DetectPassword(stored.Password).Verify("plain-legacy") {
		t.Fatalf("stored hash does not verify the legacy password")
	}

	// Second login must reuse the unified credential, not insert again.
	if _, err := r.Authenticate(context.Background(), "sitelead", "plain-legacy"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if store.inserts != 1 {
		t.Fatalf("inserts after second login = %d, want 1", store.inserts)
	}
	for _, s := range []*memSource{src} {
		if s.calls != 1 {
			t.Fatalf("legacy source probed %d times, want 1", s.calls)
		}
	}
}

func TestAuthenticateLegacyPriorityOrder(t *testing.T) {
	store := newMemStore()
	admin := &memSource{match: &LegacyMatch{
		Email: "dual@site.com", Password: "adminpw", Role: model.RoleSuperAdmin, ProfileID: 1, Name: "Dual",
	}}
	client := &memSource{match: &LegacyMatch{
		Email: "dual@site.com", Password: "clientpw", Role: model.RoleClient, ProfileID: 9, Name: "Dual",
	}}
	r := NewResolver(store, []LegacySource{admin, client}, bcrypt.MinCost)

	cred, err := r.Authenticate(context.Background(), "dual@site.com", "adminpw")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if cred.Role != model.RoleSuperAdmin {
		t.Fatalf("role = %q, want first-match source to win", cred.Role)
	}
	if client.calls != 0 {
		t.Fatalf("lower-priority source probed after a match")
	}
}

func TestAuthenticateMigratesPlaintextOnLogin(t *testing.T) {
	store := newMemStore()
	c := store.add("old@site.com", "", "plain-pw", model.RoleClient)
	r := NewResolver(store, nil, bcrypt.MinCost)

	cred, err := r.Authenticate(context.Background(), "old@site.com", "plain-pw")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if cred.Password != "" {
		t.Fatalf("password leaked in response")
	}
	if store.updates != 1 {
		t.Fatalf("updates = %d, want exactly one hash upgrade", store.updates)
	}
	if !DetectPassword(c.Password).Hashed() {
		t.Fatalf("stored value still plaintext after login")
	}
	if !DetectPassword(c.Password).Verify("plain-pw") {
		t.Fatalf("upgraded hash does not verify the original password")
	}

	// The next login verifies against the hash without another rewrite.
	if _, err := r.Authenticate(context.Background(), "old@site.com", "plain-pw"); err != nil {
		t.Fatalf("login after upgrade: %v", err)
	}
	if store.updates != 1 {
		t.Fatalf("hash rewritten again on a hashed login")
	}
}

func TestAuthenticateNoMigrationOnWrongPassword(t *testing.T) {
	store := newMemStore()
	c := store.add("old@site.com", "", "plain-pw", model.RoleClient)
	r := NewResolver(store, nil, bcrypt.MinCost)

	if _, err := r.Authenticate(context.Background(), "old@site.com", "guess"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if store.updates != 0 || c.Password != "plain-pw" {
		t.Fatalf("failed login mutated the stored password")
	}
}

func TestAuthenticateDuplicateInsertRefetches(t *testing.T) {
	store := newMemStore()
	src := &memSource{match: &LegacyMatch{
		Email: "race@site.com", Password: "pw", Role: model.RoleClient, ProfileID: 3, Name: "Race",
	}}
	r := NewResolver(store, []LegacySource{src}, bcrypt.MinCost)

	// A concurrent login wrote the unified row between this request's
	// lookup miss and its insert.
	store.insertErr = ErrDuplicateIdentity
	store.findMisses = 1
	store.add("race@site.com", "", mustHash(t, "pw"), model.RoleClient)

	cred, err := r.Authenticate(context.Background(), "race@site.com", "pw")
	if err != nil {
		t.Fatalf("Authenticate after duplicate insert: %v", err)
	}
	if cred.Email.String != "race@site.com" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
	if got := len(store.creds); got != 1 {
		t.Fatalf("credentials = %d, want the single winner row", got)
	}
}

func TestAuthenticateInternalFaultIsNotSentinel(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("connection reset")
	r := NewResolver(store, nil, bcrypt.MinCost)

	_, err := r.Authenticate(context.Background(), "boss@site.com", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("internal fault mapped to a client sentinel: %v", err)
	}
}
