package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uniaid/internal/logging"
	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
)

// Campaigns runs the campaign lifecycle: creation by verified
// fundraisers, owner edits and admin review.
type Campaigns struct {
	base
}

type CampaignInput struct {
	Title       string
	Description string
	GoalAmount  decimal.Decimal
	Category    model.Category
	Beneficiary string
	Deadline    time.Time
	Image       string
}

// CampaignPatch carries the fields of a partial update. Nil fields are
// left untouched.
type CampaignPatch struct {
	Title       *string
	Description *string
	GoalAmount  *decimal.Decimal
	Category    *model.Category
	Beneficiary *string
	Deadline    *time.Time
	Image       *string
	Status      *model.CampaignStatus
}

func placeholderImage(id string) string {
	return "https://picsum.photos/seed/" + id + "/800/600"
}

func (in CampaignInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := checkAmount(in.GoalAmount); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	if !in.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	return nil
}

// Create opens a PENDING campaign owned by fundraiserID.
func (s *Campaigns) Create(ctx context.Context, fundraiserID string, in CampaignInput) (*model.Campaign, error) {
	var campaign *model.Campaign
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		owner, err := loadUser(tx, fundraiserID)
		if err != nil {
			return err
		}
		if owner.Role != model.RoleFundraiser {
			return fmt.Errorf("%w: only fundraisers create campaigns", ErrUnauthorized)
		}
		if !owner.IsVerified() {
			return ErrNotVerified
		}
		if err := in.validate(); err != nil {
			return err
		}

		c := &model.Campaign{
			ID:             s.newID(),
			FundraiserID:   owner.ID,
			FundraiserName: owner.Name,
			Title:          in.Title,
			Description:    in.Description,
			GoalAmount:     in.GoalAmount,
			RaisedAmount:   decimal.Zero,
			Status:         model.CampaignPending,
			Category:       in.Category,
			Beneficiary:    in.Beneficiary,
			Deadline:       in.Deadline,
			CreatedAt:      s.now(),
			Image:          in.Image,
		}
		if c.Image == "" {
			c.Image = placeholderImage(c.ID)
		}
		if err := tx.CreateCampaign(c); err != nil {
			return err
		}
		campaign = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("Campaign created", "campaign_id", campaign.ID, "fundraiser_id", fundraiserID)
	return campaign, nil
}

// Update merges patch into the campaign. The owner may edit content, only
// an admin may set the status. Editing the title or description of a
// REJECTED campaign sends it back to PENDING whatever status the patch
// names.
func (s *Campaigns) Update(ctx context.Context, actorID, id string, patch CampaignPatch) (*model.Campaign, error) {
	var campaign *model.Campaign
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		actor, err := tx.GetUserByID(actorID)
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}
		isAdmin := actor.Role == model.RoleAdmin
		if !isAdmin && actor.ID != c.FundraiserID {
			return ErrUnauthorized
		}
		if patch.Status != nil && !isAdmin {
			return fmt.Errorf("%w: only an admin may change the status", ErrUnauthorized)
		}

		if err := applyPatch(c, patch); err != nil {
			return err
		}
		if err := tx.UpdateCampaign(c); err != nil {
			return err
		}
		campaign = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("Campaign updated", "campaign_id", id, "status", campaign.Status)
	return campaign, nil
}

// Review approves (ACTIVE) or rejects (REJECTED) a pending campaign.
func (s *Campaigns) Review(ctx context.Context, actorID, id string, approve bool) (*model.Campaign, error) {
	var campaign *model.Campaign
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := requireAdmin(tx, actorID); err != nil {
			return err
		}
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		to := model.CampaignRejected
		if approve {
			to = model.CampaignActive
		}
		if c.Status != model.CampaignPending {
			return fmt.Errorf("%w: campaign %s is %s, not under review", model.ErrIllegalTransition, id, c.Status)
		}
		if c.Status, err = c.Status.Transition(to); err != nil {
			return err
		}
		if err := tx.UpdateCampaign(c); err != nil {
			return err
		}
		campaign = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logg.Info("Campaign reviewed", "campaign_id", id, "admin_id", actorID, "status", campaign.Status)
	return campaign, nil
}

func applyPatch(c *model.Campaign, patch CampaignPatch) error {
	resubmit := c.Status == model.CampaignRejected && (patch.Title != nil || patch.Description != nil)

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.GoalAmount != nil {
		if err := checkAmount(*patch.GoalAmount); err != nil {
			return fmt.Errorf("goal: %w", err)
		}
		c.GoalAmount = *patch.GoalAmount
	}
	if patch.Category != nil {
		if !patch.Category.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, *patch.Category)
		}
		c.Category = *patch.Category
	}
	if patch.Beneficiary != nil {
		c.Beneficiary = *patch.Beneficiary
	}
	if patch.Deadline != nil {
		c.Deadline = *patch.Deadline
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}

	switch {
	case resubmit:
		next, err := c.Status.Transition(model.CampaignPending)
		if err != nil {
			return err
		}
		c.Status = next
	case patch.Status != nil:
		// Completion belongs to the ledger, which also pays out the funds.
		if *patch.Status == model.CampaignCompleted && c.Status != model.CampaignCompleted {
			return fmt.Errorf("%w: campaigns complete only by reaching their goal", model.ErrIllegalTransition)
		}
		next, err := c.Status.Transition(*patch.Status)
		if err != nil {
			return err
		}
		c.Status = next
	}
	return nil
}
