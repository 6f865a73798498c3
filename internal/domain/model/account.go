package model

import (
	"time"

	"campus-chat/internal/domain"

	"github.com/google/uuid"
)

// Account is a registered user record. Presence in the room is tracked
// separately; an Account only backs the login page.
type Account struct {
	ID           string
	Username     string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time
}

func NewAccount(id, username, nickname, passwordHash string) (*Account, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if username == "" || nickname == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Account{
		ID:           id,
		Username:     username,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

func (a *Account) IsZero() bool { return a == nil || a.ID == "" }
