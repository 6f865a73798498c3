// File: internal/usecase/account_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/domain/ports/repository"
	"campus-chat/internal/infra/logging"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

// AccountUseCase backs the login page: registration, credential checks, and
// username availability. It is independent of room presence.
type AccountUseCase interface {
	Register(ctx context.Context, username, password, nickname string) (*model.Account, error)
	Login(ctx context.Context, username, password string) (*model.Account, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
}

type accountUC struct {
	accounts repository.AccountRepository
	log      *zerolog.Logger
}

func NewAccountUseCase(accounts repository.AccountRepository, logger *zerolog.Logger) *accountUC {
	return &accountUC{accounts: accounts, log: logger}
}

func (a *accountUC) Register(ctx context.Context, username, password, nickname string) (*model.Account, error) {
	defer logging.TraceDuration(a.log, "AccountUC.Register")()

	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", domain.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidArgument)
	}
	if nickname == "" {
		nickname = username
	}

	if _, err := a.accounts.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct, err := model.NewAccount("", username, nickname, string(hash))
	if err != nil {
		return nil, err
	}
	if err := a.accounts.Save(ctx, acct); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	a.log.Info().Str("username", username).Msg("account registered")
	return acct, nil
}

func (a *accountUC) Login(ctx context.Context, username, password string) (*model.Account, error) {
	defer logging.TraceDuration(a.log, "AccountUC.Login")()

	acct, err := a.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	acct.LastLogin = time.Now()
	if err := a.accounts.TouchLastLogin(ctx, acct.ID, acct.LastLogin); err != nil {
		// login still succeeds; the timestamp is advisory
		a.log.Warn().Err(err).Str("username", username).Msg("could not update last login")
	}
	return acct, nil
}

func (a *accountUC) CheckUsername(ctx context.Context, username string) (bool, error) {
	_, err := a.accounts.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
