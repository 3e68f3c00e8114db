package service

import (
	"context"
	"fmt"

	"uniaid/internal/logging"
	"uniaid/internal/model"
	"uniaid/internal/store"
)

// RequestVerification submits documents for review. It is allowed from
// any status and always leaves the user PENDING.
func (s *Identity) RequestVerification(ctx context.Context, userID string, docs model.VerificationDocuments) (*model.User, error) {
	if docs.GovernmentID == "" {
		return nil, fmt.Errorf("%w: government id document is required", ErrInvalidInput)
	}

	var user *model.User
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		if u.Role == model.RoleAdmin {
			return fmt.Errorf("%w: admins are always verified", ErrInvalidInput)
		}
		docs.SubmittedAt = s.now()
		u.VerificationDocuments = &docs
		u.VerificationStatus = u.VerificationStatus.Submit()
		if err := saveUser(tx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("Verification requested", "user_id", userID)
	pub := user.Public()
	return &pub, nil
}

// EvaluateVerification approves or rejects a pending request. Only admins
// may call it.
func (s *Identity) EvaluateVerification(ctx context.Context, actorID, userID string, approve bool) (*model.User, error) {
	var user *model.User
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := requireAdmin(tx, actorID); err != nil {
			return err
		}
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		next, err := u.VerificationStatus.Evaluate(approve)
		if err != nil {
			return err
		}
		u.VerificationStatus = next
		if err := saveUser(tx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("Verification evaluated", "user_id", userID, "admin_id", actorID, "status", user.VerificationStatus)
	pub := user.Public()
	return &pub, nil
}
