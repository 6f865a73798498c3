package usecase

import (
	"context"
	"errors"
	"testing"

	"campus-chat/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func TestAccount_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemAccountRepo()
	uc := NewAccountUseCase(repo, nopLogger())

	acct, err := uc.Register(ctx, "bob", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acct.ID == "" {
		t.Fatalf("expected an assigned account id")
	}
	if acct.Nickname != "bob" {
		t.Fatalf("expected nickname to default to username, got %q", acct.Nickname)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify the password")
	}

	got, err := uc.Login(ctx, "bob", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("expected bob got %q", got.Username)
	}
	if got.LastLogin.IsZero() {
		t.Fatalf("expected last login to be stamped")
	}
}

func TestAccount_RegisterValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewAccountUseCase(newMemAccountRepo(), nopLogger())

	if _, err := uc.Register(ctx, "ab", "secret123", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("short username: expected ErrInvalidArgument got %v", err)
	}
	if _, err := uc.Register(ctx, "bob", "short", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("short password: expected ErrInvalidArgument got %v", err)
	}
}

func TestAccount_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewAccountUseCase(newMemAccountRepo(), nopLogger())

	if _, err := uc.Register(ctx, "bob", "secret123", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := uc.Register(ctx, "bob", "other456", ""); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists got %v", err)
	}
}

func TestAccount_LoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewAccountUseCase(newMemAccountRepo(), nopLogger())
	if _, err := uc.Register(ctx, "bob", "secret123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(ctx, "bob", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials got %v", err)
	}
	if _, err := uc.Login(ctx, "nobody", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials got %v", err)
	}
}

func TestAccount_LoginSurvivesTouchFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemAccountRepo()
	uc := NewAccountUseCase(repo, nopLogger())
	if _, err := uc.Register(ctx, "bob", "secret123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	repo.touchErr = errors.New("disk full")
	if _, err := uc.Login(ctx, "bob", "secret123"); err != nil {
		t.Fatalf("login must succeed despite advisory timestamp failure: %v", err)
	}
}

func TestAccount_CheckUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewAccountUseCase(newMemAccountRepo(), nopLogger())
	if _, err := uc.Register(ctx, "bob", "secret123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	free, err := uc.CheckUsername(ctx, "bob")
	if err != nil || free {
		t.Fatalf("expected bob taken, got (%v, %v)", free, err)
	}
	free, err = uc.CheckUsername(ctx, "carol")
	if err != nil || !free {
		t.Fatalf("expected carol free, got (%v, %v)", free, err)
	}
}
