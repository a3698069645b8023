// Package medications provides the PostgreSQL repository for medications.
package medications

import (
	"context"
	"fmt"

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

const columns = `id, user_id, name, dosage, frequency, notes, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMedication(s scanner) (models.Medication, error) {
	var m models.Medication
	err := s.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List returns the user's medications, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Medication, error) {
	query := `SELECT ` + columns + ` FROM medications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	result := []models.Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Medication, error) {
	query := `SELECT ` + columns + ` FROM medications
		WHERE user_id = $1 AND id = $2`

	m, err := scanMedication(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return &m, nil
}

// Create inserts m. ID and UserID must be set; timestamps are filled in.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Medication) error {
	query := `INSERT INTO medications (id, user_id, name, dosage, frequency, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.Notes).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

// Delete removes one medication. An absent row yields common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM medications WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
