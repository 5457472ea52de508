package repository

import (
	"context"
	"testing"

	"vacationManagement/internal/testutil"
	"vacationManagement/models"
)

func TestUserRepository_CRUDAndQueries(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo")
	repo := NewUserRepository(d)
	ctx := context.Background()

	// Create
	u, err := repo.Create(ctx, &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		EmployeeCode: 1234567,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Role != models.RoleEmployee || u.CreatedAt == "" {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// GetByID, GetByEmail, GetByEmployeeCode return the same row.
	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil || byID == nil {
		t.Fatalf("get by id: %v %+v", err, byID)
	}
	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("get by email: %v %+v", err, byEmail)
	}
	byCode, err := repo.GetByEmployeeCode(ctx, 1234567)
	if err != nil || byCode == nil {
		t.Fatalf("get by employee code: %v %+v", err, byCode)
	}
	if *byID != *byEmail || *byID != *byCode {
		t.Fatalf("lookups disagree: id=%+v email=%+v code=%+v", byID, byEmail, byCode)
	}

	// Missing rows are nil, not errors.
	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing email, got %+v err=%v", missing, err)
	}

	// Update without password keeps the hash.
	byID.Name = "Alice Manager"
	byID.Role = models.RoleManager
	byID.PasswordHash = ""
	if err := repo.Update(ctx, byID); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if got.Name != "Alice Manager" || got.Role != models.RoleManager || got.PasswordHash != "hash" {
		t.Fatalf("update not applied correctly: %+v", got)
	}

	// Update with password replaces it.
	got.PasswordHash = "newhash"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if got.PasswordHash != "newhash" {
		t.Fatalf("password not updated: %+v", got)
	}

	// List
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	// Delete
	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, u.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected user deleted, got: %+v err=%v", gone, err)
	}
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "useruniq")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &models.User{Name: "A", Email: "a@example.com", PasswordHash: "h", EmployeeCode: 1000001}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, &models.User{Name: "B", Email: "a@example.com", PasswordHash: "h", EmployeeCode: 1000002}); err == nil {
		t.Fatalf("expected duplicate email to fail")
	}
	if _, err := repo.Create(ctx, &models.User{Name: "C", Email: "c@example.com", PasswordHash: "h", EmployeeCode: 1000001}); err == nil {
		t.Fatalf("expected duplicate employee code to fail")
	}
}
