package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/styloxstar/prosite-backend/internal/model"
)

const userColumns = `id, username, email, name, password_hash, role,
	plan_id, plan_max_pages, plan_custom_themes, plan_expires_at,
	payment, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u       model.User
		payment []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.Plan.ID, &u.Plan.MaxPages, &u.Plan.CustomThemes, &u.Plan.ExpiresAt,
		&payment, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(payment) > 0 {
		if err := json.Unmarshal(payment, &u.Payment); err != nil {
			return nil, fmt.Errorf("unmarshal payment: %w", err)
		}
	}

	return &u, nil
}

// CreateUser создаёт нового пользователя с тарифом demo.
func (r *PostgresRepository) CreateUser(ctx context.Context, username, email, name string, passwordHash []byte) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, name, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, name, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// UpdateUserPlan атомарно применяет к пользователю тариф, роль и метаданные
// платежа одним обновлением и возвращает обновлённую запись.
func (r *PostgresRepository) UpdateUserPlan(ctx context.Context, userID int64, newPlan model.UserPlan, role model.Role, payment model.PaymentMeta) (*model.User, error) {
	paymentJSON, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("marshal payment: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET plan_id = $2, plan_max_pages = $3, plan_custom_themes = $4,
		     plan_expires_at = $5, role = $6, payment = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		userID, newPlan.ID, newPlan.MaxPages, newPlan.CustomThemes,
		newPlan.ExpiresAt, role, paymentJSON,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user plan: %w", err)
	}

	return u, nil
}
