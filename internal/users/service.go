// Package users implements manager-only account administration and credential checks.
package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vacationManagement/internal/apperr"
	"vacationManagement/internal/auth"
	"vacationManagement/models"
	"vacationManagement/repository"
)

const (
	msgMissingFields      = "Missing fields"
	msgInvalidCode        = "Employee code must be a 7-digit integer"
	msgDuplicateCode      = "Employee code must be unique"
	msgDuplicateEmail     = "Email must be unique"
	msgInvalidRole        = "Role must be employee or manager"
	msgUserNotFound       = "User not found"
	msgInvalidCredentials = "Invalid credentials"
)

// Service administers user accounts.
type Service struct {
	users      repository.UserRepositoryI
	bcryptCost int
}

// NewService creates a user administration service.
func NewService(users repository.UserRepositoryI) *Service {
	return &Service{users: users, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// CreateInput carries the fields of a new account. Nil means "not supplied".
type CreateInput struct {
	Name         *string
	Email        *string
	Password     *string
	Role         *string
	EmployeeCode *int64
}

// UpdateInput carries a partial update; nil fields keep their current value.
type UpdateInput = CreateInput

// Authenticate checks credentials for login. It needs no caller identity.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Unprocessable(msgInvalidCredentials)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return nil, apperr.Unprocessable(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unprocessable(msgInvalidCredentials)
	}
	return u, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	p, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, apperr.Unauthenticated("Unauthenticated")
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", p.UserID, err)
	}
	if u == nil {
		return nil, apperr.Unauthenticated("Unauthenticated")
	}
	return u, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	return s.mustFind(ctx, id)
}

// FindByEmail looks a user up by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	return u, nil
}

// FindByEmployeeCode looks a user up by employee code.
func (s *Service) FindByEmployeeCode(ctx context.Context, code int64) (*models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	if !models.ValidEmployeeCode(code) {
		return nil, apperr.Validation(msgInvalidCode)
	}
	u, err := s.users.GetByEmployeeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find user by employee code: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	return u, nil
}

// Create adds a new account. All fields are required.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	if blank(in.Name) || blank(in.Email) || blank(in.Password) || blank(in.Role) {
		return nil, apperr.Validation(msgMissingFields)
	}
	if in.EmployeeCode == nil || !models.ValidEmployeeCode(*in.EmployeeCode) {
		return nil, apperr.Validation(msgInvalidCode)
	}
	role := models.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
	if !role.Valid() {
		return nil, apperr.Validation(msgInvalidRole)
	}
	email := normalizeEmail(*in.Email)
	if err := s.checkUnique(ctx, 0, email, *in.EmployeeCode); err != nil {
		return nil, err
	}
	hash, err := s.hash(*in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &models.User{
		Name:         strings.TrimSpace(*in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		EmployeeCode: *in.EmployeeCode,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update applies a partial update. The password is re-hashed only when a non-empty value is given.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.User, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	code := u.EmployeeCode
	if in.EmployeeCode != nil {
		if !models.ValidEmployeeCode(*in.EmployeeCode) {
			return nil, apperr.Validation(msgInvalidCode)
		}
		code = *in.EmployeeCode
	}
	email := u.Email
	if !blank(in.Email) {
		email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		role := models.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			return nil, apperr.Validation(msgInvalidRole)
		}
		u.Role = role
	}
	if err := s.checkUnique(ctx, u.ID, email, code); err != nil {
		return nil, err
	}
	if !blank(in.Name) {
		u.Name = strings.TrimSpace(*in.Name)
	}
	u.Email = email
	u.EmployeeCode = code

	// An empty hash tells the repository to leave the password column alone.
	u.PasswordHash = ""
	if !blank(in.Password) {
		if u.PasswordHash, err = s.hash(*in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.mustFind(ctx, id)
}

// Delete removes an account. The user's vacations are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := auth.RequireManager(ctx); err != nil {
		return err
	}
	if _, err := s.mustFind(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *Service) mustFind(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, apperr.Validation("Invalid or missing id")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if u == nil {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	return u, nil
}

// checkUnique rejects an email or employee code held by a user other than selfID.
func (s *Service) checkUnique(ctx context.Context, selfID int64, email string, code int64) error {
	byCode, err := s.users.GetByEmployeeCode(ctx, code)
	if err != nil {
		return fmt.Errorf("find user by employee code: %w", err)
	}
	if byCode != nil && byCode.ID != selfID {
		return apperr.Validation(msgDuplicateCode)
	}
	byEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if byEmail != nil && byEmail.ID != selfID {
		return apperr.Validation(msgDuplicateEmail)
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
