package db

import (
	"testing"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := Open(DriverSQLite, "file:dbmigrate?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	applied, err := AppliedVersions(d, DriverSQLite)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if !applied[1] || !applied[2] {
		t.Fatalf("expected versions 1 and 2 applied, got %v", applied)
	}

	for _, table := range []string{"users", "vacations"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// Re-applying is a no-op.
	if err := ApplyMigrations(d, DriverSQLite); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestEmployeeCodeCheckConstraint(t *testing.T) {
	d, err := Open(DriverSQLite, "file:dbcheck?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`INSERT INTO users (name, email, password, role, employee_code) VALUES ('x', 'x@example.com', 'h', 'employee', 123)`)
	if err == nil {
		t.Fatalf("expected CHECK violation for 3-digit employee code")
	}
	_, err = d.Exec(`INSERT INTO users (name, email, password, role, employee_code) VALUES ('x', 'x@example.com', 'h', 'boss', 1234567)`)
	if err == nil {
		t.Fatalf("expected CHECK violation for unknown role")
	}
}

func TestRollbackLast(t *testing.T) {
	d, err := Open(DriverSQLite, "file:dbrollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	v, err := RollbackLast(d, DriverSQLite)
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if v != 2 {
		t.Fatalf("rolled back version = %d, want 2", v)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='vacations'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("vacations table still present after rollback")
	}

	// Applying again restores it.
	if err := ApplyMigrations(d, DriverSQLite); err != nil {
		t.Fatalf("reapply: %v", err)
	}
	applied, _ := AppliedVersions(d, DriverSQLite)
	if !applied[2] {
		t.Fatalf("version 2 not reapplied: %v", applied)
	}
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	if _, err := Connect("postgres", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
