package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/styloxstar/prosite-backend/internal/model"
)

var defaultPageComponents = []string{"navbar", "hero", "footer"}

// GetPages возвращает страницы пользователя в порядке отображения.
func (s *Service) GetPages(ctx context.Context, userID int64) ([]model.Page, error) {
	return s.repo.GetPagesByUser(ctx, userID)
}

// CreatePage создаёт страницу с учётом квоты тарифа. Администраторы квотой
// не ограничены.
func (s *Service) CreatePage(ctx context.Context, userID int64, name string, components []string) (model.Page, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return model.Page{}, err
	}

	count, err := s.repo.CountPagesByUser(ctx, userID)
	if err != nil {
		return model.Page{}, err
	}

	if count >= user.Plan.MaxPages && user.Role != model.RoleAdmin {
		return model.Page{}, fmt.Errorf("%w: maximum %d pages on your plan", ErrPageQuotaExceeded, user.Plan.MaxPages)
	}

	if components == nil {
		components = defaultPageComponents
	}

	slug := slugify(name)
	return s.repo.CreatePage(ctx, model.Page{
		UserID:     userID,
		PageID:     fmt.Sprintf("%s-%d", slug, s.now().UnixMilli()),
		Name:       name,
		Slug:       slug,
		Components: components,
		Order:      count,
	})
}

// PageUpdate описывает частичное обновление страницы; nil-поля не меняются.
type PageUpdate struct {
	Name        *string
	Components  []string
	IsPublished *bool
	Order       *int
}

// UpdatePage применяет частичное обновление к странице пользователя.
func (s *Service) UpdatePage(ctx context.Context, userID int64, pageID string, upd PageUpdate) (model.Page, error) {
	p, err := s.repo.GetPage(ctx, userID, pageID)
	if err != nil {
		return model.Page{}, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Components != nil {
		p.Components = upd.Components
	}
	if upd.IsPublished != nil {
		p.IsPublished = *upd.IsPublished
	}
	if upd.Order != nil {
		p.Order = *upd.Order
	}

	return s.repo.SavePage(ctx, p)
}

// DeletePage удаляет страницу пользователя вместе с содержимым компонентов.
func (s *Service) DeletePage(ctx context.Context, userID int64, pageID string) error {
	return s.repo.DeletePage(ctx, userID, pageID)
}

// ReorderPage заменяет порядок компонентов страницы.
func (s *Service) ReorderPage(ctx context.Context, userID int64, pageID string, components []string) (model.Page, error) {
	p, err := s.repo.GetPage(ctx, userID, pageID)
	if err != nil {
		return model.Page{}, err
	}

	p.Components = components
	return s.repo.SavePage(ctx, p)
}

// GetPageContents возвращает содержимое компонентов страницы.
func (s *Service) GetPageContents(ctx context.Context, userID int64, pageID string) (map[string]json.RawMessage, error) {
	if _, err := s.repo.GetPage(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.repo.GetComponentContents(ctx, userID, pageID)
}

// SaveComponentContent сохраняет содержимое компонента страницы.
func (s *Service) SaveComponentContent(ctx context.Context, userID int64, pageID, componentID string, content json.RawMessage) error {
	if _, err := s.repo.GetPage(ctx, userID, pageID); err != nil {
		return err
	}
	return s.repo.UpsertComponentContent(ctx, userID, pageID, componentID, content)
}

func slugify(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
