package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/damoah/buildflow/internal/auth"
	"github.com/damoah/buildflow/internal/model"
)

// The three legacy role tables predate the unified login_credentials
// store. Each one is exposed to the resolver as an auth.LegacySource that
// produces the same normalized match shape, so the resolver iterates a
// list instead of branching per table.
//
// All three tables share the columns the resolver needs (email, username,
// password plus a display-name column), so one query template serves them.

// legacySource reads one legacy table. nameCol is the table's display-name
// column; role is the tag stamped onto credentials synthesized from it.
type legacySource struct {
	db      *sql.DB
	table   string
	nameCol string
	role    string
}

// Find returns the normalized match for the identifier, or (nil, nil)
// when no row matches. Matching is case-insensitive and fully anchored on
// either email or username.
func (s *legacySource) Find(ctx context.Context, identifier string) (*auth.LegacyMatch, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	q := fmt.Sprintf(
		"SELECT id, email, username, password, %s FROM %s WHERE LOWER(email)=? OR LOWER(username)=? LIMIT 1",
		s.nameCol, s.table)

	var (
		id       uint64
		email    sql.NullString
		username sql.NullString
		password string
		name     string
	)
	err := s.db.QueryRowContext(ctx, q, ident, ident).Scan(&id, &email, &username, &password, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth.LegacyMatch{
		Email:     email.String,
		Username:  username.String,
		Password:  password,
		Role:      s.role,
		ProfileID: id,
		Name:      name,
	}, nil
}

// NewLegacySources returns the legacy identity sources in the fixed
// fallback priority order: admins, then supervisors, then clients.
func NewLegacySources(db *sql.DB) []auth.LegacySource {
	return []auth.LegacySource{
		&legacySource{db: db, table: "admins", nameCol: "full_name", role: model.RoleSuperAdmin},
		&legacySource{db: db, table: "supervisors", nameCol: "name", role: model.RoleSupervisor},
		&legacySource{db: db, table: "clients", nameCol: "name", role: model.RoleClient},
	}
}
