package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
)

func newTestRepo(t *testing.T) *AccountRepo {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAccountRepo(db)
}

func mustAccount(t *testing.T, username string) *model.Account {
	t.Helper()
	a, err := model.NewAccount("", username, username, "hash-"+username)
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	return a
}

func TestAccountRepo_SaveAndFind(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	a := mustAccount(t, "bob")
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.ID != a.ID || got.Username != "bob" || got.PasswordHash != "hash-bob" {
		t.Fatalf("unexpected account %+v", got)
	}
	if !got.LastLogin.IsZero() {
		t.Fatalf("expected zero last login for a fresh account")
	}
}

func TestAccountRepo_FindMissing(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	if _, err := repo.FindByUsername(context.Background(), "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestAccountRepo_SaveIsUpsert(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	a := mustAccount(t, "bob")
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("first save: %v", err)
	}
	a.Nickname = "Bobby"
	a.PasswordHash = "new-hash"
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.Nickname != "Bobby" || got.PasswordHash != "new-hash" {
		t.Fatalf("expected updated fields, got %+v", got)
	}
}

func TestAccountRepo_TouchLastLogin(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	a := mustAccount(t, "bob")
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	at := time.Now().Truncate(time.Second)
	if err := repo.TouchLastLogin(ctx, a.ID, at); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}

	got, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.LastLogin.IsZero() {
		t.Fatalf("expected last login to be set")
	}

	if err := repo.TouchLastLogin(ctx, "missing-id", at); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown id, got %v", err)
	}
}
