package service

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("disk on fire")

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return newTestServiceOn(mem), mem
}

func newTestServiceOn(s store.Store) *Service {
	svc := New(s)
	svc.Identity.PasswordCost = bcrypt.MinCost
	svc.SetClock(steppingClock())
	return svc
}

// steppingClock advances one second per call so timestamps are ordered.
func steppingClock() func() time.Time {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func putUser(t *testing.T, s store.Store, u model.User) {
	t.Helper()
	if u.VerificationStatus == "" {
		u.VerificationStatus = model.VerificationNone
	}
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		return tx.CreateUser(&u)
	})
	if err != nil {
		t.Fatalf("put user %s: %v", u.ID, err)
	}
}

func putCampaign(t *testing.T, s store.Store, c model.Campaign) {
	t.Helper()
	if c.Category == "" {
		c.Category = model.CategoryOther
	}
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		return tx.CreateCampaign(&c)
	})
	if err != nil {
		t.Fatalf("put campaign %s: %v", c.ID, err)
	}
}

func getUser(t *testing.T, s store.Store, id string) model.User {
	t.Helper()
	var u *model.User
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		var err error
		u, err = tx.GetUserByID(id)
		return err
	})
	if err != nil {
		t.Fatalf("get user %s: %v", id, err)
	}
	return *u
}

func getCampaign(t *testing.T, s store.Store, id string) model.Campaign {
	t.Helper()
	var c *model.Campaign
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		var err error
		c, err = tx.GetCampaign(id)
		return err
	})
	if err != nil {
		t.Fatalf("get campaign %s: %v", id, err)
	}
	return *c
}

func listLedger(t *testing.T, s store.Store) ([]model.Donation, []model.Transaction) {
	t.Helper()
	var (
		donations    []model.Donation
		transactions []model.Transaction
	)
	err := s.InTx(context.Background(), func(tx store.Tx) error {
		var err error
		if donations, err = tx.ListDonations(); err != nil {
			return err
		}
		transactions, err = tx.ListTransactions()
		return err
	})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	return donations, transactions
}

// snapshot captures the raw documents of every collection and the
// session slot.
func snapshot(m *store.Memory) map[string]string {
	out := make(map[string]string)
	for _, key := range []string{store.KeyUsers, store.KeyCampaigns, store.KeyDonations, store.KeyTransactions, store.KeyCurrentUser} {
		v, _ := m.Raw(key)
		out[key] = v
	}
	return out
}

func assertUnchanged(t *testing.T, m *store.Memory, before map[string]string) {
	t.Helper()
	if after := snapshot(m); !maps.Equal(before, after) {
		t.Errorf("store changed:\nbefore %v\nafter  %v", before, after)
	}
}

// failingStore wraps a store and makes one repository method fail.
type failingStore struct {
	store.Store
	failOn string
}

func (f failingStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.InTx(ctx, func(tx store.Tx) error {
		return fn(failingTx{Tx: tx, failOn: f.failOn})
	})
}

type failingTx struct {
	store.Tx
	failOn string
}

func (t failingTx) CreateDonation(d *model.Donation) error {
	if t.failOn == "CreateDonation" {
		return errBoom
	}
	return t.Tx.CreateDonation(d)
}

func (t failingTx) CreateTransaction(tr *model.Transaction) error {
	if t.failOn == "CreateTransaction" {
		return errBoom
	}
	return t.Tx.CreateTransaction(tr)
}

func (t failingTx) UpdateCampaign(c *model.Campaign) error {
	if t.failOn == "UpdateCampaign" {
		return errBoom
	}
	return t.Tx.UpdateCampaign(c)
}

func (t failingTx) UpdateUser(u *model.User) error {
	if t.failOn == "UpdateUser" {
		return errBoom
	}
	return t.Tx.UpdateUser(u)
}

func (t failingTx) GetCampaign(id string) (*model.Campaign, error) {
	if t.failOn == "GetCampaign" {
		return nil, errBoom
	}
	return t.Tx.GetCampaign(id)
}
