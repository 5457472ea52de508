package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"vacationManagement/models"
)

// ListByUserID returns all vacations of a user ordered by start_date desc, id desc.
func (r *VacationRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Vacation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+vacationColumns+` FROM vacations WHERE user_id = ? ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVacationRows(rows)
}

// VacationFilter narrows List. Zero values match everything.
type VacationFilter struct {
	Statuses []models.VacationStatus
	UserID   *int64
}

// List returns vacations matching f in insertion order (id asc).
func (r *VacationRepository) List(ctx context.Context, f VacationFilter) ([]models.Vacation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any

	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ",")+")")
	}
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}

	query := `SELECT ` + vacationColumns + ` FROM vacations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVacationRows(rows)
}

// scanVacationRows drains rows into Vacation values. It never returns a nil slice on success.
func scanVacationRows(rows *sql.Rows) ([]models.Vacation, error) {
	out := []models.Vacation{}
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
