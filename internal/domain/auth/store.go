package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hradmin/internal/platform/querier"
)

var ErrUserNotFound = errors.New("user not found")

type AuthUser struct {
	ID           string
	Email        string
	PasswordHash string
	RoleName     string
	EmployeeID   string
	Status       string
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var user AuthUser
	var employeeID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, role, employee_id, status
    FROM users
    WHERE lower(email) = lower($1) AND status = 'Active'
  `, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.RoleName, &employeeID, &user.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	if err != nil {
		return AuthUser{}, err
	}
	if employeeID != nil {
		user.EmployeeID = *employeeID
	}
	return user, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE id = $1", userID)
	return err
}
