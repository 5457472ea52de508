package models

// VacationStatus represents where a vacation request is in its review.
type VacationStatus string

const (
	VacationStatusPending  VacationStatus = "pending"
	VacationStatusApproved VacationStatus = "approved"
	VacationStatusDeclined VacationStatus = "declined"
)

// Valid reports whether s is a known status.
func (s VacationStatus) Valid() bool {
	switch s {
	case VacationStatusPending, VacationStatusApproved, VacationStatusDeclined:
		return true
	}
	return false
}

// Vacation is a request for time off owned by a single user (many-to-one via UserID).
// Dates are kept as the calendar strings the client submitted.
type Vacation struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	StartDate string         `db:"start_date" json:"start_date"`
	EndDate   string         `db:"end_date" json:"end_date"`
	Status    VacationStatus `db:"status" json:"status"`
	Reason    *string        `db:"reason" json:"reason"`
	CreatedAt string         `db:"created_at" json:"created_at"`
}
