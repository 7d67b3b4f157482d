package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hradmin/internal/domain/auth"
	"hradmin/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureOrgDefaults(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}
	return nil
}

func ensureOrgDefaults(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM branches").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var branchID string
	if err := pool.QueryRow(ctx, "INSERT INTO branches (name, address) VALUES ('Head Office', '') RETURNING id").Scan(&branchID); err != nil {
		return err
	}
	for _, name := range []string{"Engineering", "Finance", "Human Resources", "Administration"} {
		if _, err := pool.Exec(ctx, "INSERT INTO departments (name, branch_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", name, branchID); err != nil {
			return err
		}
	}
	for i, title := range []string{"Associate", "Senior Associate", "Manager", "Director"} {
		if _, err := pool.Exec(ctx, "INSERT INTO designations (title, level) VALUES ($1, $2) ON CONFLICT DO NOTHING", title, i+1); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, status)
    VALUES ($1, $2, $3, 'Active')
  `, email, hash, auth.RoleAdmin)
	return err
}
