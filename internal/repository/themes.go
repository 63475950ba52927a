package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/styloxstar/prosite-backend/internal/model"
)

const themeColumns = `id, theme_id, name, type, premium, is_custom, created_by, colors, created_at`

func scanTheme(row pgx.Row) (model.Theme, error) {
	var (
		t      model.Theme
		colors []byte
	)
	err := row.Scan(&t.ID, &t.ThemeID, &t.Name, &t.Type, &t.Premium, &t.IsCustom,
		&t.CreatedBy, &colors, &t.CreatedAt)
	if err != nil {
		return model.Theme{}, err
	}

	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &t.Colors); err != nil {
			return model.Theme{}, fmt.Errorf("unmarshal colors: %w", err)
		}
	}

	return t, nil
}

// GetThemesForUser возвращает встроенные темы и собственные темы пользователя.
func (r *PostgresRepository) GetThemesForUser(ctx context.Context, userID int64) ([]model.Theme, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+themeColumns+`
		 FROM themes
		 WHERE is_custom = FALSE OR created_by = $1
		 ORDER BY is_custom, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select themes: %w", err)
	}
	defer rows.Close()

	var res []model.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		res = append(res, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateTheme сохраняет пользовательскую тему.
func (r *PostgresRepository) CreateTheme(ctx context.Context, t model.Theme) (model.Theme, error) {
	colors, err := json.Marshal(t.Colors)
	if err != nil {
		return model.Theme{}, fmt.Errorf("marshal colors: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO themes (theme_id, name, type, premium, is_custom, created_by, colors)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+themeColumns,
		t.ThemeID, t.Name, t.Type, t.Premium, t.IsCustom, t.CreatedBy, colors,
	)

	created, err := scanTheme(row)
	if err != nil {
		return model.Theme{}, fmt.Errorf("insert theme: %w", err)
	}

	return created, nil
}

// GetCustomTheme возвращает пользовательскую тему по идентификатору.
func (r *PostgresRepository) GetCustomTheme(ctx context.Context, userID int64, themeID string) (model.Theme, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+themeColumns+`
		 FROM themes
		 WHERE theme_id = $1 AND created_by = $2 AND is_custom = TRUE`,
		themeID, userID,
	)

	t, err := scanTheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Theme{}, ErrThemeNotFound
		}
		return model.Theme{}, fmt.Errorf("get theme: %w", err)
	}

	return t, nil
}

// SaveCustomTheme обновляет имя, тип и цвета пользовательской темы.
func (r *PostgresRepository) SaveCustomTheme(ctx context.Context, t model.Theme) (model.Theme, error) {
	colors, err := json.Marshal(t.Colors)
	if err != nil {
		return model.Theme{}, fmt.Errorf("marshal colors: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE themes
		 SET name = $3, type = $4, colors = $5
		 WHERE theme_id = $1 AND created_by = $2 AND is_custom = TRUE
		 RETURNING `+themeColumns,
		t.ThemeID, t.CreatedBy, t.Name, t.Type, colors,
	)

	saved, err := scanTheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Theme{}, ErrThemeNotFound
		}
		return model.Theme{}, fmt.Errorf("update theme: %w", err)
	}

	return saved, nil
}

// DeleteCustomTheme удаляет пользовательскую тему.
func (r *PostgresRepository) DeleteCustomTheme(ctx context.Context, userID int64, themeID string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM themes WHERE theme_id = $1 AND created_by = $2 AND is_custom = TRUE`,
		themeID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrThemeNotFound
	}
	return nil
}

// GetSettings возвращает настройки пользователя, создавая запись по умолчанию при первом обращении.
func (r *PostgresRepository) GetSettings(ctx context.Context, userID int64) (model.Settings, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return model.Settings{}, fmt.Errorf("ensure settings: %w", err)
	}

	var s model.Settings
	err = r.pool.QueryRow(ctx,
		`SELECT user_id, active_theme, sidebar_collapsed, last_active_page, updated_at
		 FROM settings WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.ActiveTheme, &s.SidebarCollapsed, &s.LastActivePage, &s.UpdatedAt)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return s, nil
}

// SaveSettings сохраняет настройки пользователя целиком.
func (r *PostgresRepository) SaveSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO settings (user_id, active_theme, sidebar_collapsed, last_active_page, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET active_theme = EXCLUDED.active_theme,
		               sidebar_collapsed = EXCLUDED.sidebar_collapsed,
		               last_active_page = EXCLUDED.last_active_page,
		               updated_at = now()
		 RETURNING user_id, active_theme, sidebar_collapsed, last_active_page, updated_at`,
		s.UserID, s.ActiveTheme, s.SidebarCollapsed, s.LastActivePage,
	).Scan(&s.UserID, &s.ActiveTheme, &s.SidebarCollapsed, &s.LastActivePage, &s.UpdatedAt)
	if err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	return s, nil
}
