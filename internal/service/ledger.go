package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"uniaid/internal/logging"
	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
)

// Ledger moves money from donor wallets through the SYSTEM escrow to
// fundraiser wallets.
type Ledger struct {
	base
}

const maxAmountLen = 32

// maxAmount is the first value that no longer fits NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

// checkAmount accepts positive amounts below maxAmount with at most two
// fractional digits. The exponent is checked first since every other
// check rescales.
func checkAmount(d decimal.Decimal) error {
	if exp := d.Exponent(); exp < -10 || exp > 12 {
		return fmt.Errorf("%w: exponent %d out of range", ErrInvalidAmount, exp)
	}
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, d)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: %s is too large", ErrInvalidAmount, d)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, d)
	}
	return nil
}

// ParseAmount turns an untrusted amount (JSON number, numeric string,
// Go number) into a positive decimal with at most two fractional digits.
func ParseAmount(v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, x)
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		return ParseAmount(string(x))
	case string:
		if len(x) > maxAmountLen {
			return decimal.Zero, fmt.Errorf("%w: too long", ErrInvalidAmount)
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, x)
		}
		d = parsed
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}

	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ProcessDonation records one donation atomically: the donation, the
// DONATION transaction, the raised total, the donor debit and, when the
// goal is reached, completion with a FUND_TRANSFER of the whole raised
// amount. On any error nothing is written.
func (l *Ledger) ProcessDonation(ctx context.Context, donorID, campaignID string, amount decimal.Decimal) (*model.Donation, error) {
	var (
		donation  *model.Donation
		completed bool
	)
	err := l.store.InTx(ctx, func(tx store.Tx) error {
		campaign, err := loadCampaign(tx, campaignID)
		if err != nil {
			return err
		}
		if !campaign.Status.AcceptsDonations() {
			return fmt.Errorf("%w: %s is %s", ErrCampaignNotActive, campaignID, campaign.Status)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, amount)
		}
		donor, err := loadUser(tx, donorID)
		if err != nil {
			return err
		}
		if donor.WalletBalance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, donation %s", ErrInsufficientFunds, donor.WalletBalance, amount)
		}

		now := l.now()
		d := &model.Donation{
			ID:            l.newID(),
			DonorID:       donor.ID,
			DonorName:     donor.Name,
			CampaignID:    campaign.ID,
			CampaignTitle: campaign.Title,
			Amount:        amount,
			Timestamp:     now,
			DonorVerified: donor.IsVerified(),
		}
		if err := tx.CreateDonation(d); err != nil {
			return ledgerErr(err)
		}

		campaign.RaisedAmount = campaign.RaisedAmount.Add(amount)

		if err := tx.CreateTransaction(&model.Transaction{
			ID:         l.newID(),
			Type:       model.TypeDonation,
			Amount:     amount,
			SenderID:   donor.ID,
			ReceiverID: model.SystemAccount,
			Date:       now,
		}); err != nil {
			return ledgerErr(err)
		}

		if campaign.GoalReached() {
			if campaign.Status, err = campaign.Status.Transition(model.CampaignCompleted); err != nil {
				return ledgerErr(err)
			}
			payout := campaign.RaisedAmount
			if err := tx.CreateTransaction(&model.Transaction{
				ID:         l.newID(),
				Type:       model.TypeFundTransfer,
				Amount:     payout,
				SenderID:   model.SystemAccount,
				ReceiverID: campaign.FundraiserID,
				Date:       now,
			}); err != nil {
				return ledgerErr(err)
			}
			if _, err := adjustWallet(tx, campaign.FundraiserID, payout); err != nil {
				return ledgerErr(err)
			}
			completed = true
		}

		if err := tx.UpdateCampaign(campaign); err != nil {
			return ledgerErr(err)
		}
		if _, err := adjustWallet(tx, donor.ID, amount.Neg()); err != nil {
			return ledgerErr(err)
		}
		donation = d
		return nil
	})
	if err != nil {
		if !isDonationRejection(err) && !isCanceled(ctx, err) {
			err = ledgerErr(err)
		}
		logging.Logg.Warn("Donation failed", "campaign_id", campaignID, "donor_id", donorID, "amount", amount.String(), "error", err)
		return nil, err
	}

	logging.Logg.Info("Donation processed", "donation_id", donation.ID, "campaign_id", campaignID, "amount", amount.String())
	if completed {
		logging.Logg.Info("Campaign completed", "campaign_id", campaignID)
	}
	return donation, nil
}

// adjustWallet adds delta to the user's balance through saveUser.
func adjustWallet(tx store.Tx, userID string, delta decimal.Decimal) (*model.User, error) {
	u, err := loadUser(tx, userID)
	if err != nil {
		return nil, err
	}
	u.WalletBalance = u.WalletBalance.Add(delta)
	if err := saveUser(tx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func ledgerErr(err error) error {
	return fmt.Errorf("%w: %w", ErrLedgerWrite, err)
}

// isDonationRejection reports errors that mean the donation was refused
// before anything was written, plus errors already classified as ledger
// write failures.
func isDonationRejection(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrCampaignNotActive,
		ErrInvalidAmount,
		ErrInsufficientFunds,
		ErrLedgerWrite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
