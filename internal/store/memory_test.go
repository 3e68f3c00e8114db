package store

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMemory_LegacyStringAmounts(t *testing.T) {
	m := NewMemoryFromKV(map[string]string{
		KeyCampaigns: `[{"id":"c1","fundraiserId":"u2","title":"Old","goalAmount":"100","raisedAmount":"90","status":"ACTIVE","category":"Other"}]`,
		KeyUsers:     `[{"id":"u2","email":"john@fund.com","role":"FUNDRAISER","walletBalance":"1200.50"}]`,
	})

	err := m.InTx(context.Background(), func(tx Tx) error {
		c, err := tx.GetCampaign("c1")
		if err != nil {
			return err
		}
		sum := c.RaisedAmount.Add(decimal.NewFromInt(20))
		if !sum.Equal(decimal.NewFromInt(110)) {
			t.Errorf("expected numeric addition 110, got %s", sum)
		}
		u, err := tx.GetUserByID("u2")
		if err != nil {
			return err
		}
		if !u.WalletBalance.Equal(decimal.RequireFromString("1200.5")) {
			t.Errorf("unexpected balance %s", u.WalletBalance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}
}

func TestMemory_CorruptDocument(t *testing.T) {
	m := NewMemoryFromKV(map[string]string{KeyUsers: `{not json`})
	err := m.InTx(context.Background(), func(tx Tx) error { return nil })
	if err == nil || !strings.Contains(err.Error(), KeyUsers) {
		t.Errorf("expected decode error naming %s, got %v", KeyUsers, err)
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.InTx(ctx, func(tx Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if called {
		t.Error("callback ran on a canceled context")
	}
	if _, ok := m.Raw(KeyUsers); ok {
		t.Error("canceled transaction wrote to the store")
	}
}

func TestMemory_SessionRemovedFromKV(t *testing.T) {
	m := NewMemory()
	u := newUser("s@example.com")
	ctx := context.Background()

	if err := m.InTx(ctx, func(tx Tx) error { return tx.SetSession(u) }); err != nil {
		t.Fatal(err)
	}
	raw, ok := m.Raw(KeyCurrentUser)
	if !ok || !strings.Contains(raw, u.ID) {
		t.Fatalf("expected session document, got %q", raw)
	}
	if err := m.InTx(ctx, func(tx Tx) error { return tx.ClearSession() }); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Raw(KeyCurrentUser); ok {
		t.Error("session key still present after ClearSession")
	}
}
