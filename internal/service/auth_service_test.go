package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ordertrack/internal/config"
	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordPolicy.MinLength = 8
	return NewAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Password: "supersecret",
		Phone:    "+4915112345678",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.Role != constants.RoleUser {
		t.Fatalf("new user must be customer role, got %s", user.Role)
	}
	if user.DisplayName != "alice" {
		t.Fatalf("expected default display name alice, got %s", user.DisplayName)
	}
	if user.PasswordHash == "supersecret" {
		t.Fatal("password stored in plain text")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("invalid token or expiry: %q %v", token, expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	logged, loginToken, _, err := svc.Login("alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || loginToken == "" {
		t.Fatalf("unexpected login result: %+v", logged)
	}
	if logged.LastLoginAt == nil {
		t.Fatal("last login not touched")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password: expected ErrWeakPassword, got %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "BOB@example.com", Password: "supersecret"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "carol@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("carol@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "carol@example.com").
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("carol@example.com", "supersecret"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user: expected ErrUserDisabled, got %v", err)
	}
}

func TestParseJWTRejectsTampering(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, token, _, err := svc.Register(RegisterInput{Email: "dave@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	otherCfg := &config.Config{}
	otherCfg.JWT.SecretKey = "another-secret"
	other := NewAuthService(otherCfg, svc.userRepo)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatal("token signed with different secret must not parse")
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatal("tampered token must not parse")
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     10,
		RequireUpper:  true,
		RequireNumber: true,
	}
	if err := validatePassword(policy, "Abcdefghi1"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	for _, password := range []string{"Short1", "alllowercase1x", "NoDigitsHere"} {
		if err := validatePassword(policy, password); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%q: expected ErrWeakPassword, got %v", password, err)
		}
	}
}
