package service

import (
	"errors"
	"testing"
	"time"

	"apexmine/config"
	"apexmine/internal/auth"
	"apexmine/internal/domain"
	"apexmine/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        "apexmine-test",
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(testConfig(), e.accounts, e.referral)

	u, access, refresh, err := svc.Register("ada@test.local", "s3cretpass", "Ada O", "+2348000000000", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("tokens not issued")
	}
	if u.Tier != domain.FreeTier {
		t.Errorf("tier = %d, want free tier", u.Tier)
	}
	if u.Country != "NG" {
		t.Errorf("country = %s, want NG default", u.Country)
	}
	if len(u.ReferralCode) != 8 {
		t.Errorf("referral code %q, want 8 chars", u.ReferralCode)
	}
	if u.PasswordHash == "s3cretpass" {
		t.Fatal("password stored in plaintext")
	}

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != domain.RoleUser {
		t.Errorf("claims = (%d, %s), want (%d, %s)", claims.UserID, claims.Role, u.ID, domain.RoleUser)
	}

	if _, _, _, err := svc.Register("ada@test.local", "otherpass1", "Ada Two", "", "", ""); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email: err = %v, want email exists", err)
	}

	if _, _, _, err := svc.Login("ada@test.local", "wrongpass"); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("wrong password: err = %v, want invalid creds", err)
	}
	logged, _, _, err := svc.Login("ada@test.local", "s3cretpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Errorf("login user id = %d, want %d", logged.ID, u.ID)
	}
}

func TestRegisterWithReferralCode(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(testConfig(), e.accounts, e.referral)

	referrer := e.newUser(t, func(u *models.User) { u.ReferralCode = "FRIEND01" })

	u, _, _, err := svc.Register("ref@test.local", "s3cretpass", "Ref User", "", "", "FRIEND01")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ReferredByID == nil || *u.ReferredByID != referrer.ID {
		t.Errorf("referred_by = %v, want %d", u.ReferredByID, referrer.ID)
	}

	// Unknown code is ignored, not rejected.
	u2, _, _, err := svc.Register("ref2@test.local", "s3cretpass", "Ref Two", "", "", "BOGUS999")
	if err != nil {
		t.Fatalf("register with unknown code: %v", err)
	}
	if u2.ReferredByID != nil {
		t.Errorf("referred_by = %v, want nil", u2.ReferredByID)
	}
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(testConfig(), e.accounts, e.referral)

	u, _, _, err := svc.Register("cp@test.local", "origpass123", "CP User", "", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ChangePassword(u.ID, "wrongpass", "newpass123"); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("wrong current: err = %v, want invalid creds", err)
	}
	if err := svc.ChangePassword(u.ID, "origpass123", "newpass123"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, _, _, err := svc.Login("cp@test.local", "origpass123"); !errors.Is(err, ErrInvalidCreds) {
		t.Error("old password still works")
	}
	if _, _, _, err := svc.Login("cp@test.local", "newpass123"); err != nil {
		t.Errorf("new password login: %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(testConfig(), e.accounts, e.referral)

	u, _, refresh, err := svc.Register("rt@test.local", "s3cretpass", "RT User", "", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	access, newRefresh, err := svc.RefreshToken(refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatal("refreshed tokens empty")
	}
	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	if err != nil {
		t.Fatalf("parse refreshed access: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("claims user = %d, want %d", claims.UserID, u.ID)
	}

	if _, _, err := svc.RefreshToken("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want invalid token", err)
	}
}
