package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/styloxstar/prosite-backend/internal/model"
)

// FormatInvoiceNumber форматирует порядковый номер счёта: INV-001, INV-002,
// после 999 разрядность растёт естественно (INV-1000).
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%03d", seq)
}

// CreateInvoice сохраняет счёт, выдавая ему следующий порядковый номер.
// Номер берётся из строки-счётчика внутри той же транзакции, поэтому
// параллельные подтверждения сериализуются блокировкой строки и не могут
// получить одинаковый номер.
func (r *PostgresRepository) CreateInvoice(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	err := r.withRetry(ctx, func() error {
		return r.createInvoiceTx(ctx, &inv)
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *PostgresRepository) createInvoiceTx(ctx context.Context, inv *model.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var seq int64
	err = tx.QueryRow(ctx,
		`UPDATE invoice_counter SET value = value + 1 WHERE id = 1 RETURNING value`,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}

	inv.Number = FormatInvoiceNumber(seq)

	var (
		id        int64
		createdAt time.Time
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO invoices
		 (number, user_id, order_id, plan_id, plan_name, amount, currency,
		  payment_method, transaction_ref, status, user_email, user_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		inv.Number, inv.UserID, inv.OrderID, inv.PlanID, inv.PlanName,
		inv.Amount, inv.Currency, inv.PaymentMethod, inv.TransactionRef,
		inv.Status, inv.UserEmail, inv.UserName,
	).Scan(&id, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrInvoiceNumberConflict, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	inv.ID = id
	inv.CreatedAt = createdAt
	return nil
}

const invoiceColumns = `id, number, user_id, order_id, plan_id, plan_name,
	amount, currency, payment_method, transaction_ref, status,
	user_email, user_name, created_at`

func scanInvoice(row pgx.Row) (model.Invoice, error) {
	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.UserID, &inv.OrderID, &inv.PlanID,
		&inv.PlanName, &inv.Amount, &inv.Currency, &inv.PaymentMethod,
		&inv.TransactionRef, &inv.Status, &inv.UserEmail, &inv.UserName,
		&inv.CreatedAt)
	return inv, err
}

// GetInvoicesByUser возвращает последние счета пользователя, новые первыми.
func (r *PostgresRepository) GetInvoicesByUser(ctx context.Context, userID int64, limit int) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+`
		 FROM invoices
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select invoices: %w", err)
	}
	defer rows.Close()

	var res []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		res = append(res, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetInvoiceByID возвращает счёт пользователя по идентификатору. Чужой счёт
// неотличим от несуществующего.
func (r *PostgresRepository) GetInvoiceByID(ctx context.Context, userID, invoiceID int64) (model.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+`
		 FROM invoices
		 WHERE id = $1 AND user_id = $2`,
		invoiceID, userID,
	)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Invoice{}, ErrInvoiceNotFound
		}
		return model.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	return inv, nil
}
