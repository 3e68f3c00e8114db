package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uniaid/internal/model"
	"uniaid/internal/store"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		role       model.Role
		wantWallet string
		wantStatus model.VerificationStatus
	}{
		{model.RoleDonor, "1000", model.VerificationNone},
		{model.RoleFundraiser, "0", model.VerificationNone},
		{model.RoleAdmin, "0", model.VerificationVerified},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			svc, mem := newTestService(t)
			u, err := svc.Identity.Register(context.Background(), "Alice", "alice@donate.com", "secret123", tt.role)
			if err != nil {
				t.Fatalf("register failed: %v", err)
			}
			if !u.WalletBalance.Equal(dec(tt.wantWallet)) {
				t.Errorf("wallet = %s, want %s", u.WalletBalance, tt.wantWallet)
			}
			if u.VerificationStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", u.VerificationStatus, tt.wantStatus)
			}
			if u.PasswordHash != "" {
				t.Error("password hash returned to caller")
			}

			raw, _ := mem.Raw(store.KeyUsers)
			if strings.Contains(raw, "secret123") {
				t.Error("password stored in plaintext")
			}
			current, err := svc.Identity.CurrentUser(context.Background())
			if err != nil || current == nil || current.ID != u.ID {
				t.Errorf("session not set: %v, %v", current, err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Identity.Register(ctx, "Alice", "alice@donate.com", "pw", model.RoleDonor); err != nil {
		t.Fatal(err)
	}
	before := snapshot(mem)

	_, err := svc.Identity.Register(ctx, "Alice Again", "alice@donate.com", "pw", model.RoleFundraiser)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	assertUnchanged(t, mem, before)

	// Matching is exact, so a different case is a different account.
	if _, err := svc.Identity.Register(ctx, "Alice", "Alice@donate.com", "pw", model.RoleDonor); err != nil {
		t.Errorf("case variant rejected: %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Identity.Register(ctx, "Bob", "bob@x.com", "pw", model.Role("GUEST")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown role: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Identity.Register(ctx, "Bob", "", "pw", model.RoleDonor); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty email: expected ErrInvalidInput, got %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Identity.Register(ctx, "Alice", "alice@donate.com", "secret123", model.RoleDonor)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Identity.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if current, _ := svc.Identity.CurrentUser(ctx); current != nil {
		t.Fatalf("session survived logout: %+v", current)
	}

	u, err := svc.Identity.Login(ctx, "alice@donate.com", "wrong")
	if err != nil || u != nil {
		t.Errorf("wrong password: got %v, %v; want nil, nil", u, err)
	}
	u, err = svc.Identity.Login(ctx, "nobody@donate.com", "secret123")
	if err != nil || u != nil {
		t.Errorf("unknown email: got %v, %v; want nil, nil", u, err)
	}

	u, err = svc.Identity.Login(ctx, "alice@donate.com", "secret123")
	if err != nil || u == nil {
		t.Fatalf("login failed: %v, %v", u, err)
	}
	if u.ID != registered.ID {
		t.Errorf("logged in as %s, want %s", u.ID, registered.ID)
	}

	usersBefore, _ := mem.Raw(store.KeyUsers)
	if err := svc.Identity.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := mem.Raw(store.KeyCurrentUser); ok {
		t.Error("session key left after logout")
	}
	if usersAfter, _ := mem.Raw(store.KeyUsers); usersAfter != usersBefore {
		t.Error("logout touched users")
	}
}

func TestRequestVerification(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	u, err := svc.Identity.Register(ctx, "Fay", "fay@fund.com", "pw", model.RoleFundraiser)
	if err != nil {
		t.Fatal(err)
	}

	docs := model.VerificationDocuments{GovernmentID: "id.png", OrgRegistration: "org.pdf"}
	got, err := svc.Identity.RequestVerification(ctx, u.ID, docs)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got.VerificationStatus != model.VerificationPending {
		t.Errorf("status = %s, want PENDING", got.VerificationStatus)
	}
	if got.VerificationDocuments == nil || got.VerificationDocuments.OrgRegistration != "org.pdf" ||
		got.VerificationDocuments.SubmittedAt.IsZero() {
		t.Errorf("documents not stored: %+v", got.VerificationDocuments)
	}

	stored := getUser(t, mem, u.ID)
	current, _ := svc.Identity.CurrentUser(ctx)
	if stored.VerificationStatus != model.VerificationPending || current.VerificationStatus != model.VerificationPending {
		t.Errorf("copies drifted: stored %s, session %s", stored.VerificationStatus, current.VerificationStatus)
	}
}

func TestRequestVerification_Errors(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	putUser(t, mem, model.User{ID: "a1", Email: "admin@uniaid.com", Role: model.RoleAdmin, VerificationStatus: model.VerificationVerified})

	if _, err := svc.Identity.RequestVerification(ctx, "ghost", model.VerificationDocuments{GovernmentID: "id.png"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Identity.RequestVerification(ctx, "a1", model.VerificationDocuments{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing document: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Identity.RequestVerification(ctx, "a1", model.VerificationDocuments{GovernmentID: "id.png"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("admin request: expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluateVerification(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, *store.Memory) {
		svc, mem := newTestService(t)
		putUser(t, mem, model.User{ID: "a1", Email: "admin@uniaid.com", Role: model.RoleAdmin, VerificationStatus: model.VerificationVerified})
		putUser(t, mem, model.User{ID: "f1", Email: "fay@fund.com", Role: model.RoleFundraiser, VerificationStatus: model.VerificationPending})
		putUser(t, mem, model.User{ID: "f2", Email: "gus@fund.com", Role: model.RoleFundraiser, VerificationStatus: model.VerificationVerified})
		return svc, mem
	}

	t.Run("approve", func(t *testing.T) {
		svc, mem := setup(t)
		u, err := svc.Identity.EvaluateVerification(ctx, "a1", "f1", true)
		if err != nil {
			t.Fatal(err)
		}
		if u.VerificationStatus != model.VerificationVerified || getUser(t, mem, "f1").VerificationStatus != model.VerificationVerified {
			t.Errorf("not verified: %s", u.VerificationStatus)
		}
	})

	t.Run("reject then resubmit", func(t *testing.T) {
		svc, _ := setup(t)
		u, err := svc.Identity.EvaluateVerification(ctx, "a1", "f1", false)
		if err != nil || u.VerificationStatus != model.VerificationRejected {
			t.Fatalf("reject: %v, %v", u, err)
		}
		u, err = svc.Identity.RequestVerification(ctx, "f1", model.VerificationDocuments{GovernmentID: "new.png"})
		if err != nil || u.VerificationStatus != model.VerificationPending {
			t.Errorf("resubmit: %v, %v", u, err)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		svc, mem := setup(t)
		before := snapshot(mem)
		_, err := svc.Identity.EvaluateVerification(ctx, "f2", "f1", true)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		assertUnchanged(t, mem, before)
	})

	t.Run("not pending", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Identity.EvaluateVerification(ctx, "a1", "f2", false)
		if !errors.Is(err, model.ErrIllegalTransition) {
			t.Errorf("expected ErrIllegalTransition, got %v", err)
		}
	})

	t.Run("session follows evaluated user", func(t *testing.T) {
		svc, _ := setup(t)
		if _, err := svc.Identity.Register(ctx, "Hal", "hal@fund.com", "pw", model.RoleFundraiser); err != nil {
			t.Fatal(err)
		}
		current, _ := svc.Identity.CurrentUser(ctx)
		if _, err := svc.Identity.RequestVerification(ctx, current.ID, model.VerificationDocuments{GovernmentID: "id.png"}); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Identity.EvaluateVerification(ctx, "a1", current.ID, true); err != nil {
			t.Fatal(err)
		}
		after, _ := svc.Identity.CurrentUser(ctx)
		if after.VerificationStatus != model.VerificationVerified {
			t.Errorf("session status = %s, want VERIFIED", after.VerificationStatus)
		}
	})
}
