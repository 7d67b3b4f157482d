package auth

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 12 * time.Hour

type Service struct {
	Store  *Store
	Secret string
}

func NewService(store *Store, secret string) *Service {
	return &Service{Store: store, Secret: secret}
}

// Login verifies the password and issues a signed token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, AuthUser, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", AuthUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", AuthUser{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", AuthUser{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		RoleName:   user.RoleName,
	}, tokenTTL)
	if err != nil {
		return "", AuthUser{}, err
	}

	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", AuthUser{}, err
	}
	return token, user, nil
}
