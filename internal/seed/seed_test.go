package seed

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"vacationManagement/internal/testutil"
	"vacationManagement/models"
	"vacationManagement/repository"
)

func TestRun_Idempotent(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, t.Name())
	users := repository.NewUserRepository(d)
	vacs := repository.NewVacationRepository(d)
	s := &Seeder{Users: users, Vacations: vacs, BcryptCost: bcrypt.MinCost}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.Run(ctx); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	list, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("users = %d, want 5", len(list))
	}
	all, err := vacs.List(ctx, repository.VacationFilter{})
	if err != nil {
		t.Fatalf("list vacations: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("vacations = %d, want 4", len(all))
	}
	for _, v := range all {
		if v.Status != models.VacationStatusPending {
			t.Fatalf("seeded vacation not pending: %+v", v)
		}
	}

	alice, err := users.GetByEmployeeCode(ctx, 1000001)
	if err != nil || alice == nil {
		t.Fatalf("manager missing: %v", err)
	}
	if alice.Role != models.RoleManager || alice.Email != "alice.manager@example.com" {
		t.Fatalf("unexpected manager: %+v", alice)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(alice.PasswordHash), []byte(DefaultPassword)); err != nil {
		t.Fatalf("manager password: %v", err)
	}

	eve, _ := users.GetByEmployeeCode(ctx, 1000005)
	own, _ := vacs.ListByUserID(ctx, eve.ID)
	if len(own) != 1 || own[0].StartDate != "2025-12-24" || own[0].Reason == nil || *own[0].Reason != "Christmas vacation" {
		t.Fatalf("eve's vacations: %+v", own)
	}
}
