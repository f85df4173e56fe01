package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// formatBRL formats an amount as Brazilian reais (e.g., "R$ 1.234,56").
func formatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// draftFromForm reads an expense form. The category may come as an id from
// the select or as a free-text name.
func draftFromForm(r *http.Request) core.ExpenseDraft {
	category := sanitizeInput(r.PostForm.Get("categoria_id"))
	if category == "" {
		category = sanitizeInput(r.PostForm.Get("categoria"))
	}
	return core.ExpenseDraft{
		Date:        sanitizeInput(r.PostForm.Get("data")),
		Description: sanitizeInput(r.PostForm.Get("descricao")),
		Amount:      sanitizeInput(r.PostForm.Get("valor")),
		Category:    category,
		Note:        sanitizeInput(r.PostForm.Get("anotacao")),
	}
}

// barWidth scales v against max into a percentage for the admin chart.
// Non-zero values stay visible.
func barWidth(v, max decimal.Decimal) int {
	if !max.IsPositive() || !v.IsPositive() {
		return 0
	}
	width := int(v.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
