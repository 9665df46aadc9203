package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// pinUser pairs a bcrypt PIN hash with the profile it unlocks.
type pinUser struct {
	hash []byte
	user domain.User
}

// AuthService implements PIN login. Terminal users are fixed profiles
// unlocked by per-role PINs supplied through configuration; the PINs are
// hashed at construction so plaintext never outlives startup.
type AuthService struct {
	users     []pinUser
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(operatorPIN, managerPIN, jwtSecret string, tokenTTL time.Duration) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	profiles := []struct {
		pin  string
		user domain.User
	}{
		{operatorPIN, domain.User{ID: "op1", Name: "Jacob Zuma", Role: domain.RoleOperator}},
		{managerPIN, domain.User{ID: "mgr1", Name: "Cyril Ramaphosa", Role: domain.RoleManager}},
	}

	s := &AuthService{jwtSecret: jwtSecret, tokenTTL: tokenTTL}
	for _, p := range profiles {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.users = append(s.users, pinUser{hash: hash, user: p.user})
	}
	return s, nil
}

// Login resolves a PIN to a user profile and mints a signed token.
// A PIN matching no profile returns domain.ErrInvalidPin.
func (s *AuthService) Login(_ context.Context, pin string) (string, *domain.User, error) {
	if pin == "" {
		return "", nil, domain.ErrInvalidPin
	}

	for _, candidate := range s.users {
		if bcrypt.CompareHashAndPassword(candidate.hash, []byte(pin)) == nil {
			user := candidate.user
			token, err := s.generateToken(&user)
			if err != nil {
				return "", nil, err
			}
			return token, &user, nil
		}
	}
	return "", nil, domain.ErrInvalidPin
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
