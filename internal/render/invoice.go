// Package render produces the self-contained HTML invoice document that the
// browser prints to PDF. All user-supplied text goes through html/template's
// contextual escaping; the theme color is the only value interpolated into
// CSS and is forced to a strict #RRGGBB form first.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/invoice-umkm/internal/models"
)

const defaultThemeColor = "#000000"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// SanitizeColor returns the color unchanged when it is a strict six-digit
// hex value and the safe default otherwise. Never interpolate the raw input.
func SanitizeColor(color string) string {
	if hexColor.MatchString(color) {
		return color
	}
	return defaultThemeColor
}

// FormatIDR renders an amount as Indonesian rupiah with dot thousands
// separators and no decimals, e.g. 100000 -> "Rp 100.000".
func FormatIDR(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

var (
	tplOnce sync.Once
	tpl     *template.Template
	tplErr  error
)

func invoiceTemplate() (*template.Template, error) {
	tplOnce.Do(func() {
		tpl, tplErr = template.New("invoice").Funcs(template.FuncMap{
			"idr":  FormatIDR,
			"date": formatDate,
			"subtotal": func(it models.InvoiceItem) string {
				return FormatIDR(float64(it.Quantity) * it.Price)
			},
		}).Parse(invoiceHTML)
	})
	return tpl, tplErr
}

type documentData struct {
	Invoice    *models.Invoice
	ThemeColor template.CSS
	Watermark  bool
	ShowQris   bool
}

// InvoiceHTML renders the printable document for one invoice. FREE-plan
// invoices carry the watermark; the QRIS section appears only when the
// invoice snapshot has both PRO and QRIS set.
func InvoiceHTML(inv *models.Invoice) (string, error) {
	t, err := invoiceTemplate()
	if err != nil {
		return "", fmt.Errorf("parse invoice template: %w", err)
	}
	data := documentData{
		Invoice:    inv,
		ThemeColor: template.CSS(SanitizeColor(inv.ThemeColor)),
		Watermark:  !inv.IsPro,
		ShowQris:   inv.IsPro && inv.HasQris,
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return buf.String(), nil
}
