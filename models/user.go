package models

// Role determines what a user is allowed to do.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

const (
	// EmployeeCodeMin and EmployeeCodeMax bound the 7-digit employee code.
	EmployeeCodeMin = 1000000
	EmployeeCodeMax = 9999999
)

// ValidEmployeeCode reports whether code has exactly seven digits.
func ValidEmployeeCode(code int64) bool {
	return code >= EmployeeCodeMin && code <= EmployeeCodeMax
}

// User maps to the `users` table.
// PasswordHash never leaves the process: it is excluded from every JSON rendering.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password" json:"-"`
	Role         Role   `db:"role" json:"role"`
	EmployeeCode int64  `db:"employee_code" json:"employee_code"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}
