package service

import (
	"testing"
	"time"

	"ecolabs/pkg/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

func testService() *Service {
	cfg := &types.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 240,
	}
	return New(nil, nil, nil, logrus.New(), cfg)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testService()
	user := &types.User{ID: "user-1", Role: types.RoleResearcher}

	token, err := svc.signToken(user, svc.config.AccessTokenSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.Role != types.RoleResearcher {
		t.Fatalf("expected researcher role, got %q", claims.Role)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := testService()
	user := &types.User{ID: "user-1", Role: types.RoleAdmin}

	token, err := svc.signToken(user, "some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAccessTokenRejectsRefreshToken(t *testing.T) {
	svc := testService()
	user := &types.User{ID: "user-1", Role: types.RoleLandowner}

	token, err := svc.signToken(user, svc.config.RefreshTokenSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("refresh tokens must not pass access validation")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	svc := testService()
	user := &types.User{ID: "user-1", Role: types.RoleLandowner}

	token, err := svc.signToken(user, svc.config.AccessTokenSecret, -time.Minute)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
	claims := new(Claims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("token should still decode without verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1 in expired claims, got %q", claims.UserID)
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := requireAdmin(types.Caller{ID: "a", Role: types.RoleAdmin}); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}

	err := requireAdmin(types.Caller{ID: "b", Role: types.RoleLandowner})
	if err == nil {
		t.Fatal("expected forbidden")
	}
	if types.StatusCode(err) != 403 {
		t.Fatalf("expected 403, got %d", types.StatusCode(err))
	}
}
