package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/orderstore"
	"github.com/styloxstar/prosite-backend/internal/plan"
	"github.com/styloxstar/prosite-backend/internal/upi"
)

// planDuration — срок действия подписки. Продление считается от момента
// оплаты: неиспользованный остаток прежнего срока сгорает.
const planDuration = 30 * 24 * time.Hour

const invoiceListLimit = 50

// CreateOrderResult содержит созданный ордер и данные для инициации оплаты.
type CreateOrderResult struct {
	Order       model.Order
	PlanName    string
	PaymentLink string
	PayeeID     string
}

// CreateOrder создаёт платёжный ордер на покупку тарифа. Сумма фиксируется
// по каталогу в момент создания; при отсутствии цены в запрошенной валюте
// используется валюта по умолчанию.
func (s *Service) CreateOrder(ctx context.Context, userID int64, planID model.PlanID, currency model.Currency) (CreateOrderResult, error) {
	def, err := plan.Get(planID)
	if err != nil {
		return CreateOrderResult{}, err
	}

	amount, effCurrency, err := plan.PriceFor(planID, currency)
	if err != nil {
		return CreateOrderResult{}, err
	}

	o := s.orders.Create(userID, planID, amount, effCurrency)

	link := upi.PaymentLink(upi.Params{
		PayeeVPA:  s.payeeVPA,
		PayeeName: s.payeeName,
		Amount:    amount,
		Currency:  effCurrency,
		OrderID:   o.ID,
		Note:      fmt.Sprintf("ProSite %s plan (%s)", def.Name, o.ID),
	})

	return CreateOrderResult{
		Order:       o,
		PlanName:    def.Name,
		PaymentLink: link,
		PayeeID:     s.payeeVPA,
	}, nil
}

// ConfirmResult содержит итог подтверждения платежа. Invoice равен nil, если
// счёт не удалось сохранить: платёж при этом считается успешным.
type ConfirmResult struct {
	User    *model.User
	Invoice *model.Invoice
}

// ConfirmPayment подтверждает оплату ордера: применяет тариф к пользователю,
// переводит ордер в completed, выписывает счёт и ставит уведомление в
// очередь. Сумма и валюта берутся из ордера, а не из каталога, поэтому
// изменение цен не влияет на уже созданные ордера.
func (s *Service) ConfirmPayment(ctx context.Context, userID int64, orderID, transactionRef string) (ConfirmResult, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if o.UserID != userID {
		return ConfirmResult{}, ErrNotOrderOwner
	}
	if o.Status == model.OrderStatusCompleted {
		return ConfirmResult{}, orderstore.ErrOrderAlreadyCompleted
	}

	def, err := plan.Get(o.PlanID)
	if err != nil {
		return ConfirmResult{}, err
	}

	expiresAt := s.now().Add(planDuration)
	newPlan := model.UserPlan{
		ID:           def.ID,
		MaxPages:     def.MaxPages,
		CustomThemes: def.CustomThemes,
		ExpiresAt:    &expiresAt,
	}
	payment := model.PaymentMeta{
		Method:         "upi",
		TransactionRef: transactionRef,
	}

	user, err := s.repo.UpdateUserPlan(ctx, userID, newPlan, plan.RoleFor(def.ID), payment)
	if err != nil {
		return ConfirmResult{}, err
	}

	// Check-and-set: при гонке подтверждений счёт выписывает только
	// победивший вызов, проигравший получает AlreadyCompleted.
	if _, err := s.orders.MarkCompleted(orderID); err != nil {
		return ConfirmResult{}, err
	}

	inv, err := s.repo.CreateInvoice(ctx, model.Invoice{
		UserID:         userID,
		OrderID:        o.ID,
		PlanID:         def.ID,
		PlanName:       def.Name,
		Amount:         o.Amount,
		Currency:       o.Currency,
		PaymentMethod:  "upi",
		TransactionRef: transactionRef,
		Status:         model.InvoiceStatusPaid,
		UserEmail:      user.Email,
		UserName:       user.Name,
	})
	if err != nil {
		// Платёж и тариф — первичны, счёт — вторичная бухгалтерия:
		// подтверждение остаётся успешным, расхождение сверяется вручную.
		s.logger.Error("invoice creation failed after plan activation",
			zap.Error(err), zap.Int64("userID", userID), zap.String("order", o.ID))
		return ConfirmResult{User: user}, nil
	}

	if s.notifier != nil {
		s.notifier.NotifyPaymentConfirmed(inv, user.Email)
	}

	return ConfirmResult{User: user, Invoice: &inv}, nil
}

// OrderStatus возвращает статус ордера текущего пользователя.
func (s *Service) OrderStatus(userID int64, orderID string) (model.Order, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.UserID != userID {
		return model.Order{}, ErrNotOrderOwner
	}
	return o, nil
}

// GetInvoices возвращает последние счета пользователя.
func (s *Service) GetInvoices(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return s.repo.GetInvoicesByUser(ctx, userID, invoiceListLimit)
}

// InvoicePDF возвращает счёт пользователя и его PDF-представление.
func (s *Service) InvoicePDF(ctx context.Context, userID, invoiceID int64) (model.Invoice, []byte, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, userID, invoiceID)
	if err != nil {
		return model.Invoice{}, nil, err
	}

	data, err := s.renderer.Render(inv)
	if err != nil {
		return model.Invoice{}, nil, fmt.Errorf("render invoice: %w", err)
	}

	return inv, data, nil
}

// LegacyUpgrade напрямую меняет тариф пользователя в обход ордеров и счетов.
// Сохранено для обратной совместимости со старым клиентом; роль выводится по
// старому правилу (enterprise — admin, иначе pro).
func (s *Service) LegacyUpgrade(ctx context.Context, userID int64, planID model.PlanID, cardLast4, cardBrand string) (*model.User, error) {
	def, err := plan.Get(planID)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(planDuration)
	newPlan := model.UserPlan{
		ID:           def.ID,
		MaxPages:     def.MaxPages,
		CustomThemes: def.CustomThemes,
		ExpiresAt:    &expiresAt,
	}

	role := model.RolePro
	if def.ID == model.PlanEnterprise {
		role = model.RoleAdmin
	}

	if cardLast4 == "" {
		cardLast4 = "4242"
	}
	if cardBrand == "" {
		cardBrand = "visa"
	}

	return s.repo.UpdateUserPlan(ctx, userID, newPlan, role, model.PaymentMeta{
		CardLast4: cardLast4,
		CardBrand: cardBrand,
	})
}
