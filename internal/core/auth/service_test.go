package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baseplate/storeops/config"
)

func newTestService() *Service {
	return NewService(&config.JWTConfig{Secret: "test-secret", Issuer: "storeops"})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.IssueToken(userID, "clerk@example.com", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "clerk@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	expired, _ := svc.IssueToken(userID, "", -time.Minute)
	other, _ := NewService(&config.JWTConfig{Secret: "other", Issuer: "storeops"}).IssueToken(userID, "", time.Hour)
	foreign, _ := NewService(&config.JWTConfig{Secret: "test-secret", Issuer: "elsewhere"}).IssueToken(userID, "", time.Hour)
	noUser, _ := svc.IssueToken(uuid.Nil, "", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: userID}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", other},
		{"wrong issuer", foreign},
		{"no user", noUser},
		{"unsigned", none},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("ValidateToken() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}
