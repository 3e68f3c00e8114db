package store

import (
	"context"
	"errors"

	"uniaid/internal/model"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrDuplicate        = errors.New("email already exists")
)

// Tx is one unit of work over the four collections and the session slot.
// Writes made through a Tx become visible only if the enclosing InTx
// callback returns nil.
type Tx interface {
	UserRepository
	CampaignRepository
	LedgerRepository
	SessionRepository
}

type UserRepository interface {
	CreateUser(u *model.User) error
	UpdateUser(u *model.User) error
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	ListUsers() ([]model.User, error)
}

type CampaignRepository interface {
	CreateCampaign(c *model.Campaign) error
	UpdateCampaign(c *model.Campaign) error
	GetCampaign(id string) (*model.Campaign, error)
	ListCampaigns() ([]model.Campaign, error)
}

type LedgerRepository interface {
	CreateDonation(d *model.Donation) error
	ListDonations() ([]model.Donation, error)
	CreateTransaction(t *model.Transaction) error
	ListTransactions() ([]model.Transaction, error)
}

// SessionRepository holds the single current-session slot. The stored
// user is a cached copy of a Users row and never a source of truth.
type SessionRepository interface {
	Session() (*model.User, error)
	SetSession(u *model.User) error
	ClearSession() error
}

type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
