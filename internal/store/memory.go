package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"uniaid/internal/logging"
	"uniaid/internal/model"
)

// Keys of the memory key-value store. Values are JSON documents.
const (
	KeyUsers        = "uniaid_users"
	KeyCampaigns    = "uniaid_campaigns"
	KeyDonations    = "uniaid_donations"
	KeyTransactions = "uniaid_transactions"
	KeyCurrentUser  = "uniaid_current_user"
)

// Memory is a process-local key-value store. Every InTx decodes a
// snapshot of the collections, runs the callback against it and encodes
// the snapshot back only on success.
type Memory struct {
	mu sync.Mutex
	kv map[string]string
}

func NewMemory() *Memory {
	return &Memory{kv: make(map[string]string)}
}

// NewMemoryFromKV preloads raw values, e.g. documents written by an
// older version of the application.
func NewMemoryFromKV(kv map[string]string) *Memory {
	m := NewMemory()
	for k, v := range kv {
		m.kv[k] = v
	}
	return m
}

// Raw returns the stored text for a key.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	return v, ok
}

func (m *Memory) Close() error { return nil }

func (m *Memory) InTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.load()
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		logging.Logg.Warn("Discarding memory transaction", "error", err)
		return err
	}
	return m.commit(snap)
}

func (m *Memory) load() (*memTx, error) {
	snap := &memTx{}
	if err := decodeKey(m.kv, KeyUsers, &snap.users); err != nil {
		return nil, err
	}
	if err := decodeKey(m.kv, KeyCampaigns, &snap.campaigns); err != nil {
		return nil, err
	}
	if err := decodeKey(m.kv, KeyDonations, &snap.donations); err != nil {
		return nil, err
	}
	if err := decodeKey(m.kv, KeyTransactions, &snap.transactions); err != nil {
		return nil, err
	}
	if err := decodeKey(m.kv, KeyCurrentUser, &snap.session); err != nil {
		return nil, err
	}
	return snap, nil
}

func (m *Memory) commit(snap *memTx) error {
	staged := make(map[string]string, 5)
	values := map[string]any{
		KeyUsers:        snap.users,
		KeyCampaigns:    snap.campaigns,
		KeyDonations:    snap.donations,
		KeyTransactions: snap.transactions,
	}
	for key, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		staged[key] = string(b)
	}
	if snap.session != nil {
		b, err := json.Marshal(snap.session)
		if err != nil {
			return fmt.Errorf("encode %s: %w", KeyCurrentUser, err)
		}
		staged[KeyCurrentUser] = string(b)
	}

	for k, v := range staged {
		m.kv[k] = v
	}
	if snap.session == nil {
		delete(m.kv, KeyCurrentUser)
	}
	return nil
}

func decodeKey(kv map[string]string, key string, dst any) error {
	raw, ok := kv[key]
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

type memTx struct {
	users        []model.User
	campaigns    []model.Campaign
	donations    []model.Donation
	transactions []model.Transaction
	session      *model.User
}

func (t *memTx) CreateUser(u *model.User) error {
	for _, existing := range t.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	t.users = append(t.users, *u)
	return nil
}

func (t *memTx) UpdateUser(u *model.User) error {
	for i := range t.users {
		if t.users[i].ID == u.ID {
			t.users[i] = *u
			return nil
		}
	}
	return ErrUserNotFound
}

func (t *memTx) GetUserByID(id string) (*model.User, error) {
	for _, u := range t.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (t *memTx) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range t.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (t *memTx) ListUsers() ([]model.User, error) {
	return append([]model.User(nil), t.users...), nil
}

func (t *memTx) CreateCampaign(c *model.Campaign) error {
	t.campaigns = append(t.campaigns, *c)
	return nil
}

func (t *memTx) UpdateCampaign(c *model.Campaign) error {
	for i := range t.campaigns {
		if t.campaigns[i].ID == c.ID {
			t.campaigns[i] = *c
			return nil
		}
	}
	return ErrCampaignNotFound
}

func (t *memTx) GetCampaign(id string) (*model.Campaign, error) {
	for _, c := range t.campaigns {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrCampaignNotFound
}

func (t *memTx) ListCampaigns() ([]model.Campaign, error) {
	return append([]model.Campaign(nil), t.campaigns...), nil
}

func (t *memTx) CreateDonation(d *model.Donation) error {
	t.donations = append(t.donations, *d)
	return nil
}

func (t *memTx) ListDonations() ([]model.Donation, error) {
	return append([]model.Donation(nil), t.donations...), nil
}

func (t *memTx) CreateTransaction(tr *model.Transaction) error {
	t.transactions = append(t.transactions, *tr)
	return nil
}

func (t *memTx) ListTransactions() ([]model.Transaction, error) {
	return append([]model.Transaction(nil), t.transactions...), nil
}

func (t *memTx) Session() (*model.User, error) {
	if t.session == nil {
		return nil, nil
	}
	u := *t.session
	return &u, nil
}

func (t *memTx) SetSession(u *model.User) error {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: empty session user", ErrUserNotFound)
	}
	cp := *u
	t.session = &cp
	return nil
}

func (t *memTx) ClearSession() error {
	t.session = nil
	return nil
}
