package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uniaid/internal/logging"
	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Identity registers users, manages the session slot and runs the
// verification workflow.
type Identity struct {
	base
	PasswordCost int
}

func (s *Identity) HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func (s *Identity) CheckPassword(passwordHash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
}

// Register creates a user and makes it the current session. Donors start
// with DonorStartingGrant, admins are verified from the start.
func (s *Identity) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:                 s.newID(),
		Name:               name,
		Email:              email,
		PasswordHash:       hashedPassword,
		Role:               role,
		WalletBalance:      decimal.Zero,
		VerificationStatus: model.VerificationNone,
		CreatedAt:          s.now(),
	}
	switch role {
	case model.RoleDonor:
		user.WalletBalance = DonorStartingGrant
	case model.RoleAdmin:
		user.VerificationStatus = model.VerificationVerified
	}

	err = s.store.InTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateUser(user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return setSession(tx, user)
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("User registered", "user_id", user.ID, "role", user.Role)
	pub := user.Public()
	return &pub, nil
}

// Login returns nil, nil when the email is unknown or the password does
// not match. Callers report that as ErrInvalidCredentials.
func (s *Identity) Login(ctx context.Context, email, password string) (*model.User, error) {
	var user *model.User
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		u, err := tx.GetUserByEmail(email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil
			}
			return err
		}
		if err := s.CheckPassword(u.PasswordHash, password); err != nil {
			return nil
		}
		user = u
		return setSession(tx, u)
	})
	if err != nil || user == nil {
		return nil, err
	}

	logging.Logg.Info("User logged in", "user_id", user.ID)
	pub := user.Public()
	return &pub, nil
}

// Logout clears the session slot and nothing else.
func (s *Identity) Logout(ctx context.Context) error {
	return s.store.InTx(ctx, func(tx store.Tx) error {
		return tx.ClearSession()
	})
}

// CurrentUser returns the cached session user, or nil when nobody is
// logged in.
func (s *Identity) CurrentUser(ctx context.Context) (*model.User, error) {
	var user *model.User
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Session()
		return err
	})
	return user, err
}

// User reads the canonical row, without the password hash.
func (s *Identity) User(ctx context.Context, id string) (*model.User, error) {
	var user *model.User
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		u, err := loadUser(tx, id)
		if err != nil {
			return err
		}
		pub := u.Public()
		user = &pub
		return nil
	})
	return user, err
}
