// Package profiles provides the PostgreSQL repository for user profiles.
package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dbx"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, email, full_name, phone, created_at, updated_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + columns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts p unless a profile with the same id exists, in which case
// common.ErrDuplicate is returned and p is left untouched.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles (id, email, full_name, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, p.FullName, p.Phone).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrDuplicate
	}
	if err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

// Update overwrites the editable fields; nil clears a field.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Profile, error) {
	query := `UPDATE profiles
		SET full_name = $2, phone = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	return scanProfile(r.db.QueryRowContext(ctx, query, id, upd.FullName, upd.Phone))
}
