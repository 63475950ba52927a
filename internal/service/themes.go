package service

import (
	"context"
	"fmt"

	"github.com/styloxstar/prosite-backend/internal/model"
)

// GetThemes возвращает встроенные темы и собственные темы пользователя.
func (s *Service) GetThemes(ctx context.Context, userID int64) ([]model.Theme, error) {
	return s.repo.GetThemesForUser(ctx, userID)
}

// CreateCustomTheme создаёт пользовательскую тему. Доступно на тарифах с
// разрешёнными собственными темами и администраторам.
func (s *Service) CreateCustomTheme(ctx context.Context, userID int64, name, themeType string, colors model.ThemeColors) (model.Theme, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return model.Theme{}, err
	}

	if !user.Plan.CustomThemes && user.Role != model.RoleAdmin {
		return model.Theme{}, ErrCustomThemesNotAllowed
	}

	if colors.Gradient == "" {
		colors.Gradient = fmt.Sprintf("linear-gradient(135deg, %s, %s)", colors.Primary, colors.Accent)
	}
	if colors.Shadow == "" {
		colors.Shadow = "0 1px 3px rgba(0,0,0,0.1)"
	}
	if colors.Card == "" {
		colors.Card = colors.Surface
	}

	return s.repo.CreateTheme(ctx, model.Theme{
		ThemeID:   fmt.Sprintf("custom-%d-%d", userID, s.now().UnixMilli()),
		Name:      name,
		Type:      themeType,
		Premium:   true,
		IsCustom:  true,
		CreatedBy: &userID,
		Colors:    colors,
	})
}

// ThemeUpdate описывает частичное обновление темы; пустые поля не меняются.
type ThemeUpdate struct {
	Name   string
	Type   string
	Colors *model.ThemeColors
}

// UpdateCustomTheme применяет частичное обновление к собственной теме пользователя.
func (s *Service) UpdateCustomTheme(ctx context.Context, userID int64, themeID string, upd ThemeUpdate) (model.Theme, error) {
	t, err := s.repo.GetCustomTheme(ctx, userID, themeID)
	if err != nil {
		return model.Theme{}, err
	}

	if upd.Name != "" {
		t.Name = upd.Name
	}
	if upd.Type != "" {
		t.Type = upd.Type
	}
	if upd.Colors != nil {
		t.Colors = mergeColors(t.Colors, *upd.Colors)
	}

	return s.repo.SaveCustomTheme(ctx, t)
}

// DeleteCustomTheme удаляет собственную тему пользователя.
func (s *Service) DeleteCustomTheme(ctx context.Context, userID int64, themeID string) error {
	return s.repo.DeleteCustomTheme(ctx, userID, themeID)
}

// GetSettings возвращает настройки пользователя.
func (s *Service) GetSettings(ctx context.Context, userID int64) (model.Settings, error) {
	return s.repo.GetSettings(ctx, userID)
}

// SettingsUpdate описывает частичное обновление настроек; nil-поля не меняются.
type SettingsUpdate struct {
	ActiveTheme      *string
	SidebarCollapsed *bool
	LastActivePage   *string
}

// UpdateSettings применяет частичное обновление к настройкам пользователя.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, upd SettingsUpdate) (model.Settings, error) {
	cur, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}

	if upd.ActiveTheme != nil {
		cur.ActiveTheme = *upd.ActiveTheme
	}
	if upd.SidebarCollapsed != nil {
		cur.SidebarCollapsed = *upd.SidebarCollapsed
	}
	if upd.LastActivePage != nil {
		cur.LastActivePage = *upd.LastActivePage
	}

	return s.repo.SaveSettings(ctx, cur)
}

func mergeColors(base, upd model.ThemeColors) model.ThemeColors {
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	merge(&base.Bg, upd.Bg)
	merge(&base.Surface, upd.Surface)
	merge(&base.SurfaceAlt, upd.SurfaceAlt)
	merge(&base.Text, upd.Text)
	merge(&base.TextSecondary, upd.TextSecondary)
	merge(&base.Primary, upd.Primary)
	merge(&base.PrimaryHover, upd.PrimaryHover)
	merge(&base.Accent, upd.Accent)
	merge(&base.Border, upd.Border)
	merge(&base.Card, upd.Card)
	merge(&base.Gradient, upd.Gradient)
	merge(&base.Shadow, upd.Shadow)

	return base
}
