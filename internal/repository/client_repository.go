package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/damoah/buildflow/internal/model"
)

// ClientRepo encapsulates queries on the `clients` table. Besides CRUD it
// is (via legacy_repository.go) one of the login fallback sources, so the
// email column carries a unique key.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

// Create inserts a client and populates its ID.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO clients (name, email, username, password, phone, project) VALUES (?,?,?,?,?,?)",
		c.Name, c.Email, c.Username, c.Password, c.Phone, c.Project)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
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

// GetByID fetches one client or ErrNotFound.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
	var c model.Client
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, username, phone, project, created_at FROM clients WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Username, &c.Phone, &c.Project, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all clients ordered by id. Password columns are never
// selected by read queries.
func (r *ClientRepo) List(ctx context.Context) ([]*model.Client, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, username, phone, project, created_at FROM clients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Username, &c.Phone, &c.Project, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a client.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE clients SET name=?, phone=?, project=? WHERE id=?",
		c.Name, c.Phone, c.Project, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a client row.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM clients WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
