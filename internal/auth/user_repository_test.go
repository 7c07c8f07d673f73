package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "hash", Role: RoleUser}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated ID")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("expected username alice, got %q", byID.Username)
	}
	if byID.Role != RoleUser {
		t.Errorf("expected role user, got %q", byID.Role)
	}
	if byID.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("expected ID %q, got %q", user.ID, byName.ID)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Username: "bob", PasswordHash: "h1", Role: RoleUser}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := repo.Create(ctx, &User{Username: "bob", PasswordHash: "h2", Role: RoleUser})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername: expected ErrUserNotFound, got %v", err)
	}
	if err := repo.UpdatePassword(ctx, "usr-missing", "hash"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword: expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryList(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty list, got %d users", len(empty))
	}

	for _, name := range []string{"alice", "bob", "carol"} {
		if err := repo.Create(ctx, &User{Username: name, PasswordHash: "h", Role: RoleUser}); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "old-hash", Role: RoleUser}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("expected new-hash, got %q", got.PasswordHash)
	}
}

func TestUserRepositoryDeleteAndCount(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "h", Role: RoleAdmin}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 after delete, got %d", count)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"alice", true},
		{"alice.smith", true},
		{"user_01", true},
		{"a-b", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"way-too-long-username-way-too-long-username-way-too-long-username-x", false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.valid {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.valid)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	if !IsValidRole(RoleUser) || !IsValidRole(RoleAdmin) {
		t.Error("expected user and admin to be valid roles")
	}
	if IsValidRole(Role("superuser")) {
		t.Error("expected superuser to be invalid")
	}
}
