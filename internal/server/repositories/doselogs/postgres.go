// Package doselogs provides the PostgreSQL repository for dose logs.
package doselogs

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/dates"
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

func (r *PostgresRepository) List(ctx context.Context, userID string, medicationIDs []string, start, end dates.Date) ([]models.DoseLog, error) {
	query := `SELECT id, medication_id, user_id, date, notes, taken_at FROM dose_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`
	args := []any{userID, start.Time(), end.Time()}

	if len(medicationIDs) > 0 {
		query += ` AND medication_id = ANY($4)`
		args = append(args, medicationIDs)
	}
	query += ` ORDER BY date, taken_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	result := []models.DoseLog{}
	for rows.Next() {
		var (
			l   models.DoseLog
			day time.Time
		)
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.UserID, &day, &l.Notes, &l.TakenAt); err != nil {
			return nil, fmt.Errorf("scan dose log: %w", err)
		}
		l.Date = dates.FromTime(day)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return result, nil
}

// Insert stores l and fills TakenAt. A second log for the same medication
// and date yields common.ErrDuplicate; an unknown medication yields
// common.ErrNotFound.
func (r *PostgresRepository) Insert(ctx context.Context, l *models.DoseLog) error {
	query := `INSERT INTO dose_logs (id, medication_id, user_id, date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING taken_at`

	err := r.db.QueryRowContext(ctx, query, l.ID, l.MedicationID, l.UserID, l.Date.Time(), l.Notes).
		Scan(&l.TakenAt)
	if err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByMedication(ctx context.Context, userID, medicationID string) error {
	query := `DELETE FROM dose_logs WHERE user_id = $1 AND medication_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, medicationID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}
