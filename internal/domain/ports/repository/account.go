package repository

import (
	"context"
	"time"

	"campus-chat/internal/domain/model"
)

// AccountRepository persists registered users.
type AccountRepository interface {
	Save(ctx context.Context, a *model.Account) error

	// FindByUsername returns domain.ErrNotFound when no such account exists.
	FindByUsername(ctx context.Context, username string) (*model.Account, error)

	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
