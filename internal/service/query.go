package service

import (
	"context"
	"sort"
	"strings"

	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
)

// Queries derives read views. Lists keep store insertion order unless a
// view says otherwise, so repeated reads without writes are identical.
type Queries struct {
	base
}

type ReviewQueue struct {
	Pending  []model.Campaign `json:"pending"`
	Reviewed []model.Campaign `json:"reviewed"`
}

type Stats struct {
	TotalRaised   decimal.Decimal `json:"totalRaised"`
	CampaignCount int             `json:"campaignCount"`
	ActiveCount   int             `json:"activeCount"`
	DonationCount int             `json:"donationCount"`
}

func (q *Queries) read(ctx context.Context, fn func(tx store.Tx) error) error {
	return q.store.InTx(ctx, fn)
}

func (q *Queries) filterCampaigns(ctx context.Context, keep func(model.Campaign) bool) ([]model.Campaign, error) {
	var out []model.Campaign
	err := q.read(ctx, func(tx store.Tx) error {
		all, err := tx.ListCampaigns()
		if err != nil {
			return err
		}
		out = make([]model.Campaign, 0, len(all))
		for _, c := range all {
			if keep(c) {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

func (q *Queries) Campaigns(ctx context.Context) ([]model.Campaign, error) {
	return q.filterCampaigns(ctx, func(model.Campaign) bool { return true })
}

func (q *Queries) Campaign(ctx context.Context, id string) (*model.Campaign, error) {
	var c *model.Campaign
	err := q.read(ctx, func(tx store.Tx) error {
		var err error
		c, err = loadCampaign(tx, id)
		return err
	})
	return c, err
}

func (q *Queries) CampaignsByFundraiser(ctx context.Context, fundraiserID string) ([]model.Campaign, error) {
	return q.filterCampaigns(ctx, func(c model.Campaign) bool { return c.FundraiserID == fundraiserID })
}

// ReviewQueue splits campaigns into those waiting for review and the rest.
func (q *Queries) ReviewQueue(ctx context.Context) (*ReviewQueue, error) {
	all, err := q.Campaigns(ctx)
	if err != nil {
		return nil, err
	}
	rq := &ReviewQueue{Pending: []model.Campaign{}, Reviewed: []model.Campaign{}}
	for _, c := range all {
		if c.Status == model.CampaignPending {
			rq.Pending = append(rq.Pending, c)
		} else {
			rq.Reviewed = append(rq.Reviewed, c)
		}
	}
	return rq, nil
}

// PublicCampaigns lists ACTIVE campaigns, optionally narrowed to one
// category and to titles containing search (case-insensitive).
func (q *Queries) PublicCampaigns(ctx context.Context, category model.Category, search string) ([]model.Campaign, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	return q.filterCampaigns(ctx, func(c model.Campaign) bool {
		if c.Status != model.CampaignActive {
			return false
		}
		if category != "" && c.Category != category {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(c.Title), search)
	})
}

// DonorCampaigns lists what a donor can browse: open and completed
// campaigns.
func (q *Queries) DonorCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return q.filterCampaigns(ctx, func(c model.Campaign) bool {
		return c.Status == model.CampaignActive || c.Status == model.CampaignCompleted
	})
}

// DonationsByCampaign returns the campaign's donations, newest first.
func (q *Queries) DonationsByCampaign(ctx context.Context, campaignID string) ([]model.Donation, error) {
	var out []model.Donation
	err := q.read(ctx, func(tx store.Tx) error {
		all, err := tx.ListDonations()
		if err != nil {
			return err
		}
		out = []model.Donation{}
		for _, d := range all {
			if d.CampaignID == campaignID {
				out = append(out, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Users lists every user without password hashes.
func (q *Queries) Users(ctx context.Context) ([]model.User, error) {
	return q.filterUsers(ctx, func(model.User) bool { return true })
}

func (q *Queries) PendingVerifications(ctx context.Context) ([]model.User, error) {
	return q.filterUsers(ctx, func(u model.User) bool {
		return u.VerificationStatus == model.VerificationPending
	})
}

func (q *Queries) filterUsers(ctx context.Context, keep func(model.User) bool) ([]model.User, error) {
	var out []model.User
	err := q.read(ctx, func(tx store.Tx) error {
		all, err := tx.ListUsers()
		if err != nil {
			return err
		}
		out = make([]model.User, 0, len(all))
		for _, u := range all {
			if keep(u) {
				out = append(out, u.Public())
			}
		}
		return nil
	})
	return out, err
}

// TransactionsFor lists ledger entries where userID is sender or receiver.
func (q *Queries) TransactionsFor(ctx context.Context, userID string) ([]model.Transaction, error) {
	var out []model.Transaction
	err := q.read(ctx, func(tx store.Tx) error {
		all, err := tx.ListTransactions()
		if err != nil {
			return err
		}
		out = []model.Transaction{}
		for _, t := range all {
			if t.SenderID == userID || t.ReceiverID == userID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

func (q *Queries) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{TotalRaised: decimal.Zero}
	err := q.read(ctx, func(tx store.Tx) error {
		campaigns, err := tx.ListCampaigns()
		if err != nil {
			return err
		}
		donations, err := tx.ListDonations()
		if err != nil {
			return err
		}
		for _, c := range campaigns {
			st.TotalRaised = st.TotalRaised.Add(c.RaisedAmount)
			if c.Status == model.CampaignActive {
				st.ActiveCount++
			}
		}
		st.CampaignCount = len(campaigns)
		st.DonationCount = len(donations)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
