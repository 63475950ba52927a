// Package upi собирает платёжные deep-link для UPI-приложений.
package upi

import (
	"net/url"
	"strconv"

	"github.com/styloxstar/prosite-backend/internal/model"
)

// Params описывает поля платёжной ссылки upi://pay.
type Params struct {
	PayeeVPA  string
	PayeeName string
	Amount    int64
	Currency  model.Currency
	OrderID   string
	Note      string
}

// PaymentLink формирует deep-link вида upi://pay с данными получателя,
// суммой и идентификатором ордера в качестве ссылки транзакции.
func PaymentLink(p Params) string {
	q := url.Values{}
	q.Set("pa", p.PayeeVPA)
	q.Set("pn", p.PayeeName)
	q.Set("am", strconv.FormatInt(p.Amount, 10))
	q.Set("cu", string(p.Currency))
	q.Set("tr", p.OrderID)
	if p.Note != "" {
		q.Set("tn", p.Note)
	}

	return "upi://pay?" + q.Encode()
}
