package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

type adminRow struct {
	Name   string
	Amount string
	Width  int
}

type adminPage struct {
	Flash       *Flash
	Total       string
	Rows        []adminRow
	MaxName     string
	ChartLabels string
	ChartValues string
}

// handleAdmin renders the totals per category with a bar chart scaled to
// the largest category.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	data := adminPage{Flash: popFlash(w, r), ChartLabels: "[]", ChartValues: "[]"}

	summary, err := s.expenses.Summary(r.Context())
	if err != nil {
		s.storageFailure(r, "summary", err)
		data.Flash = &Flash{Kind: FlashError, Message: msgStorageError}
		summary = core.Summary{}
	}

	maxTotal := decimal.Zero
	for _, c := range summary.ByCategory {
		if c.Total.GreaterThan(maxTotal) {
			maxTotal = c.Total
			data.MaxName = c.Name
		}
	}

	data.Total = formatBRL(summary.Total)
	for _, c := range summary.ByCategory {
		data.Rows = append(data.Rows, adminRow{
			Name:   c.Name,
			Amount: formatBRL(c.Total),
			Width:  barWidth(c.Total, maxTotal),
		})
	}

	if labels, err := json.Marshal(summary.ChartLabels()); err == nil {
		data.ChartLabels = string(labels)
	}
	if values, err := json.Marshal(summary.ChartValues()); err == nil {
		data.ChartValues = string(values)
	}

	s.render(w, r, "admin", data)
}
