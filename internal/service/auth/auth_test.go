package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/storage/memory"
	"EliteRegistry/pkg/logger"
)

func newTestAuth() *AuthService {
	store := memory.New()
	jwtManager := NewJWTManager("test-secret", "registry-test", time.Minute, time.Hour)
	return NewAuthService(logger.NewDiscard(), jwtManager, store, store)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, models.User{Username: "ada", Password: "lovelace", Roles: []string{models.AdminRole}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(u.Roles) != 1 || u.Roles[0] != models.StudentRole {
		t.Fatalf("self-registration roles = %v", u.Roles)
	}
	if u.Password == "lovelace" {
		t.Fatal("password stored in clear")
	}

	if _, err := svc.LoginUser(ctx, "ada", "wrong-pass"); !errors.Is(err, app_errors.ErrIncorrectPassword) {
		t.Fatalf("bad password: %v", err)
	}
	pair, err := svc.LoginUser(ctx, "ada", "lovelace")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.AccessClaims(ctx, pair.AccessToken.Raw)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims.UserID != u.ID || claims.Username != "ada" {
		t.Fatalf("claims = %+v", claims)
	}
	if _, err := svc.AccessClaims(ctx, pair.RefreshToken.Raw); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestPasswordLength(t *testing.T) {
	svc := newTestAuth()
	for _, pw := range []string{"", "12345", string(make([]byte, 73))} {
		if _, err := svc.CreateUser(context.Background(), models.User{Username: "u", Password: pw}); !errors.Is(err, app_errors.ErrIncorrectPassword) {
			t.Fatalf("password len %d: %v", len(pw), err)
		}
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()
	if _, err := svc.CreateUser(ctx, models.User{Username: "ada", Password: "lovelace"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.LoginUser(ctx, "ada", "lovelace")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := svc.RefreshTokens(ctx, first.RefreshToken.Raw)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken.Raw == first.RefreshToken.Raw {
		t.Fatal("refresh token not rotated")
	}
	if _, err := svc.RefreshTokens(ctx, first.RefreshToken.Raw); !errors.Is(err, app_errors.ErrTokenNotFound) {
		t.Fatalf("reused refresh token: %v", err)
	}
	if _, err := svc.RefreshTokens(ctx, second.AccessToken.Raw); !errors.Is(err, app_errors.ErrTokenNotFound) {
		t.Fatalf("access token used for refresh: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx, "root", "rootpass"); err != nil {
			t.Fatalf("ensure admin #%d: %v", i, err)
		}
	}
	pair, err := svc.LoginUser(ctx, "root", "rootpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.AccessClaims(ctx, pair.AccessToken.Raw)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	isAdmin := false
	for _, r := range claims.Roles {
		if r == models.AdminRole {
			isAdmin = true
		}
	}
	if !isAdmin {
		t.Fatalf("roles = %v", claims.Roles)
	}
}
