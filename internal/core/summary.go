package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseView is an expense ready for display: parsed amount and resolved
// category name.
type ExpenseView struct {
	Expense
	Value        decimal.Decimal
	CategoryName string
}

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary is the grand total plus one total per category name.
type Summary struct {
	Total      decimal.Decimal
	ByCategory []CategoryTotal
}

// NewView resolves the display data of e against a category id -> name map.
// Orphaned expenses keep their category id and show RemovedCategoryName.
func NewView(e Expense, names map[string]string) ExpenseView {
	name, ok := names[e.CategoryID]
	if !ok || name == "" {
		name = RemovedCategoryName
	}
	return ExpenseView{Expense: e, Value: e.Value(), CategoryName: name}
}

// NewSummary aggregates views by category display name, sorted by name.
func NewSummary(items []ExpenseView) Summary {
	total := decimal.Zero
	byName := map[string]decimal.Decimal{}
	for _, it := range items {
		total = total.Add(it.Value)
		byName[it.CategoryName] = byName[it.CategoryName].Add(it.Value)
	}

	list := make([]CategoryTotal, 0, len(byName))
	for name, amount := range byName {
		list = append(list, CategoryTotal{Name: name, Total: amount.Round(2)})
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})

	return Summary{Total: total.Round(2), ByCategory: list}
}

// ChartLabels returns category names in summary order.
func (s Summary) ChartLabels() []string {
	out := make([]string, len(s.ByCategory))
	for i, c := range s.ByCategory {
		out[i] = c.Name
	}
	return out
}

// ChartValues returns category totals in summary order.
func (s Summary) ChartValues() []float64 {
	out := make([]float64, len(s.ByCategory))
	for i, c := range s.ByCategory {
		out[i] = c.Total.Round(2).InexactFloat64()
	}
	return out
}
