package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrCampaignNotFound   = fmt.Errorf("campaign %w", ErrNotFound)
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotVerified        = errors.New("fundraiser must be verified by an admin before creating a campaign")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrCampaignNotActive  = errors.New("campaign is not accepting donations")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrLedgerWrite        = errors.New("ledger write failed")
)

// DonorStartingGrant is credited to every newly registered donor.
var DonorStartingGrant = decimal.NewFromInt(1000)

// Service groups the managers that share one store.
type Service struct {
	Identity  *Identity
	Campaigns *Campaigns
	Ledger    *Ledger
	Queries   *Queries
}

func New(s store.Store) *Service {
	b := newBase(s)
	return &Service{
		Identity:  &Identity{base: b, PasswordCost: bcrypt.DefaultCost},
		Campaigns: &Campaigns{base: b},
		Ledger:    &Ledger{base: b},
		Queries:   &Queries{base: b},
	}
}

// SetClock replaces the time source of every manager. Tests use it to get
// deterministic timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.Identity.now = now
	s.Campaigns.now = now
	s.Ledger.now = now
	s.Queries.now = now
}

type base struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

func newBase(s store.Store) base {
	return base{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// saveUser is the only way a user row is written after creation. It keeps
// the session copy in step with the Users collection.
func saveUser(tx store.Tx, u *model.User) error {
	if err := tx.UpdateUser(u); err != nil {
		return err
	}
	current, err := tx.Session()
	if err != nil {
		return err
	}
	if current != nil && current.ID == u.ID {
		return setSession(tx, u)
	}
	return nil
}

func setSession(tx store.Tx, u *model.User) error {
	pub := u.Public()
	return tx.SetSession(&pub)
}

// loadUser maps the store's not-found error onto ErrUserNotFound.
func loadUser(tx store.Tx, id string) (*model.User, error) {
	u, err := tx.GetUserByID(id)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, err
}

func loadCampaign(tx store.Tx, id string) (*model.Campaign, error) {
	c, err := tx.GetCampaign(id)
	if errors.Is(err, store.ErrCampaignNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCampaignNotFound, id)
	}
	return c, err
}

// requireAdmin loads the acting user and fails unless it is an admin.
func requireAdmin(tx store.Tx, actorID string) (*model.User, error) {
	actor, err := tx.GetUserByID(actorID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return actor, nil
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
