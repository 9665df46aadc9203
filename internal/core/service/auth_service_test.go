package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

func newAuthSvc(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService("1234", "5678", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestAuthService_Login_OperatorPin(t *testing.T) {
	svc := newAuthSvc(t)

	token, user, err := svc.Login(context.Background(), "1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty")
	}
	if user == nil || user.ID != "op1" || user.Role != domain.RoleOperator {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Name != "Jacob Zuma" {
		t.Fatalf("unexpected operator name: %q", user.Name)
	}
}

func TestAuthService_Login_ManagerPin(t *testing.T) {
	svc := newAuthSvc(t)

	_, user, err := svc.Login(context.Background(), "5678")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != "mgr1" || user.Role != domain.RoleManager {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_TokenClaims(t *testing.T) {
	svc := newAuthSvc(t)

	token, _, err := svc.Login(context.Background(), "1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "op1" {
		t.Errorf("expected sub op1, got %v", claims["sub"])
	}
	if claims["role"] != domain.RoleOperator {
		t.Errorf("expected role %s, got %v", domain.RoleOperator, claims["role"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) <= time.Now().Unix() {
		t.Errorf("expected future expiry, got %v", claims["exp"])
	}
}

func TestAuthService_Login_WrongPin(t *testing.T) {
	svc := newAuthSvc(t)

	if _, _, err := svc.Login(context.Background(), "0000"); err != domain.ErrInvalidPin {
		t.Fatalf("expected ErrInvalidPin, got %v", err)
	}
}

func TestAuthService_Login_EmptyPin(t *testing.T) {
	svc := newAuthSvc(t)

	if _, _, err := svc.Login(context.Background(), ""); err != domain.ErrInvalidPin {
		t.Fatalf("expected ErrInvalidPin, got %v", err)
	}
}
