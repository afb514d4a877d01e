package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/damoah/buildflow/internal/auth"
	"github.com/damoah/buildflow/internal/model"
)

// CredentialRepo persists unified login credentials. It implements
// auth.CredentialStore.
type CredentialRepo struct{ DB *sql.DB }

func NewCredentialRepo(db *sql.DB) *CredentialRepo { return &CredentialRepo{DB: db} }

const credentialColumns = "id, email, username, password, role, profile_id, name, created_at, updated_at"

// FindByIdentifier returns every credential whose email or username equals
// the identifier ignoring case. The comparison is fully anchored: partial
// matches never qualify. Historical data may hold more than one row for
// the same identifier, so all matches are returned in id order.
func (r *CredentialRepo) FindByIdentifier(ctx context.Context, identifier string) ([]*model.LoginCredential, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+credentialColumns+" FROM login_credentials WHERE LOWER(email)=? OR LOWER(username)=? ORDER BY id",
		ident, ident)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.LoginCredential
	for rows.Next() {
		var c model.LoginCredential
		if err := rows.Scan(&c.ID, &c.Email, &c.Username, &c.Password, &c.Role,
			&c.ProfileID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Insert stores a freshly synthesized credential and populates its ID.
// Unique keys on email and username turn a concurrent double-synthesis
// into auth.ErrDuplicateIdentity.
func (r *CredentialRepo) Insert(ctx context.Context, c *model.LoginCredential) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO login_credentials (email, username, password, role, profile_id, name) VALUES (?,?,?,?,?,?)",
		c.Email, c.Username, c.Password, c.Role, c.ProfileID, c.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return auth.ErrDuplicateIdentity
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// UpdatePassword rewrites the stored password in place (hash migration).
func (r *CredentialRepo) UpdatePassword(ctx context.Context, id uint64, password string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE login_credentials SET password=? WHERE id=?", password, id)
	return err
}

// GetByID fetches one credential; used by /v1/me and the refresh flow.
func (r *CredentialRepo) GetByID(ctx context.Context, id uint64) (*model.LoginCredential, error) {
	var c model.LoginCredential
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+credentialColumns+" FROM login_credentials WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Email, &c.Username, &c.Password, &c.Role,
			&c.ProfileID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateForSupplier inserts a supplier credential directly (suppliers have
// no legacy table to migrate from). The password is stored as given; the
// caller hashes it first.
func (r *CredentialRepo) CreateForSupplier(ctx context.Context, email, passwordHash string, supplierID uint64, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO login_credentials (email, password, role, profile_id, name) VALUES (?,?,?,?,?)",
		strings.ToLower(strings.TrimSpace(email)), passwordHash, model.RoleSupplier, supplierID, name)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, auth.ErrDuplicateIdentity
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
