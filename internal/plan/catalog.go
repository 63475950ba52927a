// Package plan содержит статический каталог тарифных планов.
package plan

import (
	"errors"

	"github.com/styloxstar/prosite-backend/internal/model"
)

// ErrInvalidPlan возвращается при обращении к неизвестному тарифу.
var ErrInvalidPlan = errors.New("invalid plan")

// Definition описывает тарифный план: цены, квоты и возможности.
type Definition struct {
	ID           model.PlanID              `json:"id"`
	Name         string                    `json:"name"`
	Prices       map[model.Currency]int64  `json:"prices"`
	MaxPages     int                       `json:"pages"`
	CustomThemes bool                      `json:"-"`
	Popular      bool                      `json:"popular,omitempty"`
	Features     []string                  `json:"features"`
}

var catalog = []Definition{
	{
		ID:   model.PlanStarter,
		Name: "Starter",
		Prices: map[model.Currency]int64{
			model.CurrencyUSD: 9, model.CurrencyINR: 499,
			model.CurrencyEUR: 8, model.CurrencyGBP: 7,
		},
		MaxPages:     3,
		CustomThemes: false,
		Features:     []string{"3 Pages", "6 Free Themes", "Basic Components", "Email Support"},
	},
	{
		ID:   model.PlanPro,
		Name: "Professional",
		Prices: map[model.Currency]int64{
			model.CurrencyUSD: 29, model.CurrencyINR: 1499,
			model.CurrencyEUR: 27, model.CurrencyGBP: 23,
		},
		MaxPages:     8,
		CustomThemes: true,
		Popular:      true,
		Features: []string{
			"8 Pages", "All Themes", "All Components",
			"Custom Theme", "Priority Support", "Analytics",
		},
	},
	{
		ID:   model.PlanEnterprise,
		Name: "Enterprise",
		Prices: map[model.Currency]int64{
			model.CurrencyUSD: 79, model.CurrencyINR: 3999,
			model.CurrencyEUR: 72, model.CurrencyGBP: 62,
		},
		MaxPages:     25,
		CustomThemes: true,
		Features: []string{
			"Unlimited Pages", "All Themes", "All Components",
			"Custom Themes", "White Label", "24/7 Support", "API Access",
		},
	},
}

// All возвращает все доступные к покупке тарифы в порядке возрастания цены.
func All() []Definition {
	res := make([]Definition, len(catalog))
	copy(res, catalog)
	return res
}

// Get возвращает определение тарифа по идентификатору.
func Get(id model.PlanID) (Definition, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, ErrInvalidPlan
}

// PriceFor возвращает цену тарифа в запрошенной валюте. Если цена в этой
// валюте не задана, используется валюта по умолчанию; вторым значением
// возвращается фактическая валюта цены.
func PriceFor(id model.PlanID, currency model.Currency) (int64, model.Currency, error) {
	d, err := Get(id)
	if err != nil {
		return 0, "", err
	}

	if price, ok := d.Prices[currency]; ok {
		return price, currency, nil
	}

	return d.Prices[model.DefaultCurrency], model.DefaultCurrency, nil
}

// RoleFor возвращает роль, назначаемую при покупке тарифа. Роль авторизации
// намеренно связана с уровнем тарифа.
func RoleFor(id model.PlanID) model.Role {
	switch id {
	case model.PlanEnterprise:
		return model.RoleAdmin
	case model.PlanPro:
		return model.RolePro
	default:
		return model.RoleStarter
	}
}
