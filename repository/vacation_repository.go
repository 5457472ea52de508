package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vacationManagement/models"
)

const vacationColumns = `id, user_id, start_date, end_date, status, reason, created_at`

// VacationRepository persists Vacation entities.
type VacationRepository struct {
	db *sql.DB
}

// NewVacationRepository creates a new VacationRepository.
func NewVacationRepository(db *sql.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// Create inserts a new vacation. Status defaults to 'pending' if empty.
func (r *VacationRepository) Create(ctx context.Context, v *models.Vacation) (*models.Vacation, error) {
	if v == nil {
		return nil, errors.New("vacation is nil")
	}
	if v.Status == "" {
		v.Status = models.VacationStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Insert, then read back to capture created_at.
	res, err := r.db.ExecContext(ctx, `INSERT INTO vacations (user_id, start_date, end_date, status, reason) VALUES (?, ?, ?, ?, ?)`,
		v.UserID, v.StartDate, v.EndDate, string(v.Status), toNullString(v.Reason))
	if err != nil {
		return nil, fmt.Errorf("insert vacation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created vacation not found: id=%d", id)
	}
	return created, nil
}

// GetByID fetches a vacation by its id, or nil when absent.
func (r *VacationRepository) GetByID(ctx context.Context, id int64) (*models.Vacation, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanVacation(r.db.QueryRowContext(ctx, `SELECT `+vacationColumns+` FROM vacations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// UpdateStatus overwrites the status of a vacation.
func (r *VacationRepository) UpdateStatus(ctx context.Context, id int64, status models.VacationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `UPDATE vacations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update vacation %d status: %w", id, err)
	}
	return nil
}

func scanVacation(s rowScanner) (*models.Vacation, error) {
	var v models.Vacation
	var status string
	var reason sql.NullString
	if err := s.Scan(&v.ID, &v.UserID, &v.StartDate, &v.EndDate, &status, &reason, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Status = models.VacationStatus(status)
	if reason.Valid {
		text := reason.String
		v.Reason = &text
	}
	return &v, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
