// Package seed loads demo users and vacations into an empty or partially seeded store.
package seed

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"vacationManagement/models"
	"vacationManagement/repository"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password"

type seedUser struct {
	name  string
	email string
	role  models.Role
	code  int64
}

type seedVacation struct {
	employee  int // index into the seeded employees
	startDate string
	endDate   string
	reason    string
}

var (
	manager = seedUser{"Alice Manager", "alice.manager@example.com", models.RoleManager, 1000001}

	employees = []seedUser{
		{"Bob Employee", "bob.employee@example.com", models.RoleEmployee, 1000002},
		{"Carol Employee", "carol.employee@example.com", models.RoleEmployee, 1000003},
		{"Dave Employee", "dave.employee@example.com", models.RoleEmployee, 1000004},
		{"Eve Employee", "eve.employee@example.com", models.RoleEmployee, 1000005},
	}

	vacations = []seedVacation{
		{0, "2025-08-01", "2025-08-07", "Family trip"},
		{1, "2025-07-15", "2025-07-20", "Beach holiday"},
		{2, "2025-09-10", "2025-09-15", "Conference"},
		{3, "2025-12-24", "2025-12-31", "Christmas vacation"},
	}
)

// Seeder inserts the demo data. Users are matched by employee code and
// vacations by owner and dates, so running it twice changes nothing.
type Seeder struct {
	Users      repository.UserRepositoryI
	Vacations  repository.VacationRepositoryI
	BcryptCost int
}

// Run seeds one manager, four employees and one vacation per employee.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.ensureUser(ctx, manager); err != nil {
		return err
	}
	seeded := make([]*models.User, 0, len(employees))
	for _, e := range employees {
		u, err := s.ensureUser(ctx, e)
		if err != nil {
			return err
		}
		seeded = append(seeded, u)
	}
	for _, v := range vacations {
		if err := s.ensureVacation(ctx, seeded[v.employee], v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, su seedUser) (*models.User, error) {
	existing, err := s.Users.GetByEmployeeCode(ctx, su.code)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", su.code, err)
	}
	if existing != nil {
		log.Printf("user with employee_code %d already exists, skipping", su.code)
		return existing, nil
	}
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.Users.Create(ctx, &models.User{
		Name:         su.name,
		Email:        su.email,
		PasswordHash: string(hash),
		Role:         su.role,
		EmployeeCode: su.code,
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", su.email, err)
	}
	log.Printf("created %s %s (%d)", su.role, su.email, su.code)
	return u, nil
}

func (s *Seeder) ensureVacation(ctx context.Context, owner *models.User, sv seedVacation) error {
	existing, err := s.Vacations.ListByUserID(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("list vacations of user %d: %w", owner.ID, err)
	}
	for _, v := range existing {
		if v.StartDate == sv.startDate && v.EndDate == sv.endDate {
			log.Printf("vacation %s..%s already exists for user %d, skipping", sv.startDate, sv.endDate, owner.ID)
			return nil
		}
	}
	reason := sv.reason
	if _, err := s.Vacations.Create(ctx, &models.Vacation{
		UserID:    owner.ID,
		StartDate: sv.startDate,
		EndDate:   sv.endDate,
		Reason:    &reason,
	}); err != nil {
		return fmt.Errorf("create vacation for user %d: %w", owner.ID, err)
	}
	return nil
}
