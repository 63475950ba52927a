// Package invoicepdf генерирует PDF-представление счёта.
package invoicepdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/styloxstar/prosite-backend/internal/model"
)

const (
	pageWidth  = 595.28
	marginLeft = 50.0
	marginRght = 545.0
)

// Renderer рисует счёт на странице A4.
type Renderer struct{}

// NewRenderer создаёт генератор PDF-счетов.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render формирует PDF-документ по данным счёта.
func (r *Renderer) Render(inv model.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	symbol := currencySymbol(inv.Currency)
	amount := tr(fmt.Sprintf("%s%d", symbol, inv.Amount))
	date := inv.CreatedAt.Format("2 January 2006")

	// Шапка.
	pdf.SetFillColor(59, 130, 246)
	pdf.Rect(0, 0, pageWidth, 100, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.Text(marginLeft, 52, "ProSite")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, 72, "Website Builder Platform")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(400, 30)
	pdf.CellFormat(145, 24, "INVOICE", "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(400, 58)
	pdf.CellFormat(145, 14, inv.Number, "", 0, "R", false, 0, "")

	// Реквизиты счёта.
	const metaY = 140.0
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Text(marginLeft, metaY, "Date")
	pdf.Text(marginLeft, metaY+20, "Invoice No.")
	pdf.Text(marginLeft, metaY+40, "Status")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(17, 24, 39)
	pdf.Text(140, metaY, date)
	pdf.Text(140, metaY+20, inv.Number)
	pdf.Text(140, metaY+40, strings.ToUpper(string(inv.Status)))

	// Плательщик.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Text(350, metaY, "Bill To")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(17, 24, 39)
	billTo := inv.UserName
	if billTo == "" {
		billTo = "Customer"
	}
	pdf.Text(350, metaY+20, tr(billTo))
	if inv.UserEmail != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(107, 114, 128)
		pdf.Text(350, metaY+36, tr(inv.UserEmail))
	}

	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(1)
	pdf.Line(marginLeft, 200, marginRght, 200)

	// Таблица позиций.
	const tableTop = 220.0
	pdf.SetFillColor(243, 244, 246)
	pdf.Rect(marginLeft, tableTop, 495, 30, "F")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(55, 65, 81)
	pdf.Text(60, tableTop+19, "Description")
	pdf.SetXY(340, tableTop+9)
	pdf.CellFormat(50, 12, "Qty", "", 0, "C", false, 0, "")
	pdf.SetXY(430, tableTop+9)
	pdf.CellFormat(105, 12, "Amount", "", 0, "R", false, 0, "")

	const rowY = tableTop + 40
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(17, 24, 39)
	pdf.Text(60, rowY+10, tr(fmt.Sprintf("%s Plan - Monthly Subscription", inv.PlanName)))
	pdf.SetXY(340, rowY)
	pdf.CellFormat(50, 12, "1", "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(430, rowY)
	pdf.CellFormat(105, 12, amount, "", 0, "R", false, 0, "")

	pdf.Line(marginLeft, rowY+25, marginRght, rowY+25)

	// Итоги.
	const totalY = rowY + 40
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Text(350, totalY+10, "Subtotal")
	pdf.SetTextColor(17, 24, 39)
	pdf.SetXY(430, totalY)
	pdf.CellFormat(105, 12, amount, "", 0, "R", false, 0, "")

	pdf.SetTextColor(107, 114, 128)
	pdf.Text(350, totalY+30, "Tax")
	pdf.SetTextColor(17, 24, 39)
	pdf.SetXY(430, totalY+20)
	pdf.CellFormat(105, 12, tr(symbol+"0"), "", 0, "R", false, 0, "")

	pdf.Line(350, totalY+42, marginRght, totalY+42)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(350, totalY+66, "Total")
	pdf.SetTextColor(59, 130, 246)
	pdf.SetXY(430, totalY+52)
	pdf.CellFormat(105, 16, amount, "", 0, "R", false, 0, "")

	// Платёжные данные.
	const payY = totalY + 100
	pdf.Line(marginLeft, payY-15, marginRght, payY-15)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(55, 65, 81)
	pdf.Text(marginLeft, payY+11, "Payment Information")

	transactionRef := inv.TransactionRef
	if transactionRef == "" {
		transactionRef = "N/A"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Text(marginLeft, payY+32, "Payment Method: UPI")
	pdf.Text(marginLeft, payY+48, tr("Transaction ID: "+transactionRef))
	pdf.Text(marginLeft, payY+64, "Order ID: "+inv.OrderID)

	// Подвал.
	const footY = 720.0
	pdf.Line(marginLeft, footY, marginRght, footY)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(156, 163, 175)
	pdf.SetXY(marginLeft, footY+15)
	pdf.CellFormat(495, 11, "Thank you for choosing ProSite!", "", 0, "C", false, 0, "")
	pdf.SetXY(marginLeft, footY+30)
	pdf.CellFormat(495, 11, "This is a computer-generated invoice and does not require a signature.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// currencySymbol возвращает обозначение валюты для шрифтов cp1252.
// Знак рупии в этой кодировке отсутствует, используется "Rs. ".
func currencySymbol(c model.Currency) string {
	switch c {
	case model.CurrencyUSD:
		return "$"
	case model.CurrencyEUR:
		return "€"
	case model.CurrencyGBP:
		return "£"
	default:
		return "Rs. "
	}
}
