package seed

import (
	"context"
	"testing"
	"time"

	"uniaid/internal/model"
	"uniaid/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type testHasher struct{}

func (testHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func TestApply(t *testing.T) {
	mem := store.NewMemory()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	applied, err := Apply(context.Background(), mem, testHasher{}, now)
	if err != nil || !applied {
		t.Fatalf("Apply = %v, %v", applied, err)
	}

	err = mem.InTx(context.Background(), func(tx store.Tx) error {
		users, _ := tx.ListUsers()
		campaigns, _ := tx.ListCampaigns()
		donations, _ := tx.ListDonations()
		transactions, _ := tx.ListTransactions()
		if len(users) != 5 || len(campaigns) != 12 || len(donations) != 5 || len(transactions) != 0 {
			t.Errorf("counts users=%d campaigns=%d donations=%d transactions=%d",
				len(users), len(campaigns), len(donations), len(transactions))
		}

		for _, u := range users {
			if u.Role == model.RoleAdmin && u.VerificationStatus != model.VerificationVerified {
				t.Errorf("admin %s not verified", u.ID)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(DemoPassword)); err != nil {
				t.Errorf("user %s: demo password does not match hash", u.ID)
			}
		}
		for _, c := range campaigns {
			if c.Status != model.CampaignActive || !c.Category.IsValid() || c.FundraiserName == "" {
				t.Errorf("bad seeded campaign %+v", c)
			}
			if c.GoalReached() {
				t.Errorf("campaign %s seeded at its goal", c.ID)
			}
		}

		alice, err := tx.GetUserByEmail("alice@donate.com")
		if err != nil {
			return err
		}
		if alice.WalletBalance.IntPart() != 5000 {
			t.Errorf("alice wallet = %s", alice.WalletBalance)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestApply_OnlyOnce(t *testing.T) {
	mem := store.NewMemory()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := Apply(context.Background(), mem, testHasher{}, now); err != nil {
		t.Fatal(err)
	}
	before, _ := mem.Raw(store.KeyUsers)

	applied, err := Apply(context.Background(), mem, testHasher{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Error("seed applied twice")
	}
	if after, _ := mem.Raw(store.KeyUsers); after != before {
		t.Error("users rewritten by second Apply")
	}
}
