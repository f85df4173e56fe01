// Package sheets mirrors the categories and expenses tables into a
// spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"gastos/internal/core"
)

const (
	ExpensesSheet   = "Lançamentos"
	CategoriesSheet = "Categorias"
)

var (
	categoryHeader = []any{"id", "nome"}
	expenseHeader  = []any{"id", "data", "descricao", "valor", "categoria_id", "categoria", "anotacao"}
)

// Result counts the exported data rows, headers excluded.
type Result struct {
	Categories int
	Expenses   int
}

// CategoryRows renders categories with a header row.
func CategoryRows(categories []core.Category) [][]any {
	rows := make([][]any, 0, len(categories)+1)
	rows = append(rows, categoryHeader)
	for _, c := range categories {
		rows = append(rows, []any{c.ID, c.Name})
	}
	return rows
}

// ExpenseRows renders expenses with a header row. Amounts are numbers so the
// spreadsheet can sum them.
func ExpenseRows(views []core.ExpenseView) [][]any {
	rows := make([][]any, 0, len(views)+1)
	rows = append(rows, expenseHeader)
	for _, v := range views {
		rows = append(rows, []any{
			v.ID,
			v.Date,
			v.Description,
			v.Value.InexactFloat64(),
			v.CategoryID,
			v.CategoryName,
			v.Note,
		})
	}
	return rows
}

// Export rewrites both sheets, categories first.
func Export(ctx context.Context, w TableWriter, categories []core.Category, views []core.ExpenseView) (Result, error) {
	if err := w.ReplaceTable(ctx, CategoriesSheet, CategoryRows(categories)); err != nil {
		return Result{}, fmt.Errorf("export categories: %w", err)
	}
	if err := w.ReplaceTable(ctx, ExpensesSheet, ExpenseRows(views)); err != nil {
		return Result{Categories: len(categories)}, fmt.Errorf("export expenses: %w", err)
	}
	return Result{Categories: len(categories), Expenses: len(views)}, nil
}
