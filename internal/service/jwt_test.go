package service

import (
	"errors"
	"testing"

	"uniaid/internal/config"
	"uniaid/internal/model"
)

func TestToken_RoundTrip(t *testing.T) {
	cfg := &config.Config{SecretKey: "test-secret"}
	user := &model.User{ID: "u2", Role: model.RoleFundraiser}

	token, err := GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := ParseToken(token, cfg)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "u2" || claims.Role != model.RoleFundraiser {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestToken_WrongKey(t *testing.T) {
	token, err := GenerateToken(&model.User{ID: "u1", Role: model.RoleAdmin}, &config.Config{SecretKey: "one"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, &config.Config{SecretKey: "two"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := ParseToken("not-a-token", &config.Config{SecretKey: "one"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
