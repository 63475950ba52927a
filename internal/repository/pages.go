package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/styloxstar/prosite-backend/internal/model"
)

const pageColumns = `id, user_id, page_id, name, slug, components,
	is_published, ord, created_at, updated_at`

func scanPage(row pgx.Row) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.UserID, &p.PageID, &p.Name, &p.Slug, &p.Components,
		&p.IsPublished, &p.Order, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPagesByUser возвращает страницы пользователя в порядке отображения.
func (r *PostgresRepository) GetPagesByUser(ctx context.Context, userID int64) ([]model.Page, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE user_id = $1 ORDER BY ord`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select pages: %w", err)
	}
	defer rows.Close()

	var res []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CountPagesByUser возвращает число страниц пользователя для проверки квоты тарифа.
func (r *PostgresRepository) CountPagesByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pages WHERE user_id = $1`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// GetPage возвращает страницу пользователя по строковому идентификатору.
func (r *PostgresRepository) GetPage(ctx context.Context, userID int64, pageID string) (model.Page, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE user_id = $1 AND page_id = $2`,
		userID, pageID,
	)

	p, err := scanPage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Page{}, ErrPageNotFound
		}
		return model.Page{}, fmt.Errorf("get page: %w", err)
	}

	return p, nil
}

// CreatePage сохраняет новую страницу и возвращает её с заполненными полями БД.
func (r *PostgresRepository) CreatePage(ctx context.Context, p model.Page) (model.Page, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO pages (user_id, page_id, name, slug, components, is_published, ord)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+pageColumns,
		p.UserID, p.PageID, p.Name, p.Slug, p.Components, p.IsPublished, p.Order,
	)

	created, err := scanPage(row)
	if err != nil {
		return model.Page{}, fmt.Errorf("insert page: %w", err)
	}

	return created, nil
}

// SavePage обновляет изменяемые поля страницы.
func (r *PostgresRepository) SavePage(ctx context.Context, p model.Page) (model.Page, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE pages
		 SET name = $3, components = $4, is_published = $5, ord = $6, updated_at = now()
		 WHERE user_id = $1 AND page_id = $2
		 RETURNING `+pageColumns,
		p.UserID, p.PageID, p.Name, p.Components, p.IsPublished, p.Order,
	)

	saved, err := scanPage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Page{}, ErrPageNotFound
		}
		return model.Page{}, fmt.Errorf("update page: %w", err)
	}

	return saved, nil
}

// DeletePage удаляет страницу вместе с содержимым её компонентов.
func (r *PostgresRepository) DeletePage(ctx context.Context, userID int64, pageID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM pages WHERE user_id = $1 AND page_id = $2`,
		userID, pageID,
	)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPageNotFound
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM component_contents WHERE user_id = $1 AND page_id = $2`,
		userID, pageID,
	)
	if err != nil {
		return fmt.Errorf("delete page contents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetComponentContents возвращает содержимое компонентов страницы по их идентификаторам.
func (r *PostgresRepository) GetComponentContents(ctx context.Context, userID int64, pageID string) (map[string]json.RawMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT component_id, content FROM component_contents WHERE user_id = $1 AND page_id = $2`,
		userID, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("select contents: %w", err)
	}
	defer rows.Close()

	res := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			componentID string
			content     []byte
		)
		if err := rows.Scan(&componentID, &content); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		res[componentID] = json.RawMessage(content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpsertComponentContent сохраняет содержимое компонента страницы, заменяя прежнее.
func (r *PostgresRepository) UpsertComponentContent(ctx context.Context, userID int64, pageID, componentID string, content json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO component_contents (user_id, page_id, component_id, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, page_id, component_id)
		 DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		userID, pageID, componentID, []byte(content),
	)
	if err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}
