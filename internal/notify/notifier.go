// Package notify отправляет email-уведомления о подтверждённых платежах.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/styloxstar/prosite-backend/internal/model"
)

const (
	queueSize     = 64
	sendBaseDelay = 1 * time.Second
	sendRetries   = 3
)

var currencySymbols = map[model.Currency]string{
	model.CurrencyINR: "₹",
	model.CurrencyUSD: "$",
	model.CurrencyEUR: "€",
	model.CurrencyGBP: "£",
}

type job struct {
	invoice model.Invoice
	email   string
}

// EmailNotifier отправляет письма о платежах через SMTP в фоновом воркере.
type EmailNotifier struct {
	client *mail.Client
	from   string
	logger *zap.Logger
	jobs   chan job
}

// Config содержит SMTP-параметры уведомителя.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewEmailNotifier создаёт уведомитель. При пустом SMTP-хосте отправка
// отключается, уведомления логируются и пропускаются.
func NewEmailNotifier(cfg Config, logger *zap.Logger) (*EmailNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	n := &EmailNotifier{
		from:   cfg.From,
		logger: logger,
		jobs:   make(chan job, queueSize),
	}

	if cfg.Host == "" {
		return n, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	n.client = client

	return n, nil
}

// NotifyPaymentConfirmed ставит уведомление в очередь отправки.
// Не блокирует вызывающего: при переполненной очереди уведомление отбрасывается.
func (n *EmailNotifier) NotifyPaymentConfirmed(inv model.Invoice, email string) {
	select {
	case n.jobs <- job{invoice: inv, email: email}:
	default:
		n.logger.Warn("notification queue full, dropping message",
			zap.String("invoice", inv.Number))
	}
}

// Run обрабатывает очередь уведомлений до отмены контекста.
func (n *EmailNotifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-n.jobs:
			n.send(ctx, j)
		}
	}
}

func (n *EmailNotifier) send(ctx context.Context, j job) {
	if n.client == nil {
		n.logger.Warn("email not configured, skipping notification",
			zap.String("invoice", j.invoice.Number))
		return
	}
	if j.email == "" {
		n.logger.Warn("no user email, skipping notification",
			zap.String("invoice", j.invoice.Number))
		return
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("ProSite", n.from); err != nil {
		n.logger.Error("invalid sender address", zap.Error(err))
		return
	}
	if err := msg.To(j.email); err != nil {
		n.logger.Error("invalid recipient address",
			zap.String("email", j.email), zap.Error(err))
		return
	}
	msg.Subject(fmt.Sprintf("Payment Confirmation - %s | ProSite", j.invoice.Number))
	msg.SetBodyString(mail.TypeTextHTML, buildPaymentEmailHTML(j.invoice))

	backoff := retry.WithMaxRetries(sendRetries, retry.NewExponential(sendBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := n.client.DialAndSendWithContext(ctx, msg); sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		n.logger.Error("payment confirmation email failed",
			zap.String("invoice", j.invoice.Number),
			zap.String("email", j.email),
			zap.Error(err))
		return
	}

	n.logger.Info("payment confirmation email sent",
		zap.String("invoice", j.invoice.Number),
		zap.String("email", j.email))
}

func buildPaymentEmailHTML(inv model.Invoice) string {
	symbol, ok := currencySymbols[inv.Currency]
	if !ok {
		symbol = currencySymbols[model.CurrencyINR]
	}

	transactionRef := inv.TransactionRef
	if transactionRef == "" {
		transactionRef = "N/A"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Arial,sans-serif;background:#f4f4f7;">
  <div style="max-width:560px;margin:0 auto;padding:32px 16px;">
    <div style="background:linear-gradient(135deg,#3B82F6,#8B5CF6);padding:32px;border-radius:16px 16px 0 0;text-align:center;">
      <h1 style="color:#fff;margin:0;font-size:28px;font-weight:800;letter-spacing:-0.5px;">ProSite</h1>
      <p style="color:rgba(255,255,255,0.85);margin:8px 0 0;font-size:14px;">Payment Confirmation</p>
    </div>
    <div style="background:#fff;padding:32px;border-radius:0 0 16px 16px;border:1px solid #e5e7eb;border-top:none;">
      <p style="color:#374151;font-size:16px;margin:0 0 24px;">Hi <strong>%s</strong>,</p>
      <p style="color:#6b7280;font-size:14px;line-height:1.6;margin:0 0 24px;">
        Thank you for your purchase! Your payment has been confirmed and your plan has been activated.
      </p>
      <div style="background:#f9fafb;border:1px solid #e5e7eb;border-radius:12px;padding:24px;margin-bottom:24px;">
        <div style="display:flex;justify-content:space-between;margin-bottom:16px;">
          <span style="color:#6b7280;font-size:13px;">Invoice Number</span>
          <span style="color:#111827;font-weight:700;font-size:13px;">%s</span>
        </div>
        <div style="display:flex;justify-content:space-between;margin-bottom:16px;">
          <span style="color:#6b7280;font-size:13px;">Date</span>
          <span style="color:#111827;font-weight:600;font-size:13px;">%s</span>
        </div>
        <div style="display:flex;justify-content:space-between;margin-bottom:16px;">
          <span style="color:#6b7280;font-size:13px;">Plan</span>
          <span style="color:#111827;font-weight:600;font-size:13px;">%s</span>
        </div>
        <div style="border-top:1px solid #e5e7eb;padding-top:16px;display:flex;justify-content:space-between;">
          <span style="color:#111827;font-weight:700;font-size:15px;">Total Paid</span>
          <span style="color:#3B82F6;font-weight:800;font-size:18px;">%s%d</span>
        </div>
      </div>
      <div style="margin-bottom:24px;">
        <p style="color:#374151;font-weight:700;font-size:13px;margin:0 0 8px;">Payment Details</p>
        <p style="color:#6b7280;font-size:13px;margin:0;line-height:1.8;">
          Method: UPI<br>
          Transaction ID: %s<br>
          Order ID: %s
        </p>
      </div>
      <p style="color:#6b7280;font-size:13px;line-height:1.6;margin:0;">
        You can download your invoice anytime from your <strong>Billing</strong> page in the ProSite dashboard.
      </p>
    </div>
    <div style="text-align:center;padding:24px 0;">
      <p style="color:#9ca3af;font-size:12px;margin:0;">
        This is an automated email from ProSite. Please do not reply.
      </p>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(inv.UserName),
		inv.Number,
		inv.CreatedAt.Format("2 January 2006"),
		html.EscapeString(inv.PlanName),
		symbol,
		inv.Amount,
		html.EscapeString(transactionRef),
		inv.OrderID,
	)
}
