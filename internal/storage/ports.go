// Package storage defines the persistence port shared by the csv and sqlite
// backends.
package storage

import (
	"context"

	"gastos/internal/core"
)

type (
	CategoryStore interface {
		// ListCategories returns categories in storage order.
		ListCategories(ctx context.Context) ([]core.Category, error)
		// AddCategory appends a category with id max+1.
		AddCategory(ctx context.Context, name string) (core.Category, error)
		RenameCategory(ctx context.Context, id, name string) error
		// DeleteCategory removes the category and moves its expenses to the
		// default category.
		DeleteCategory(ctx context.Context, id string) error
	}

	ExpenseStore interface {
		// ListExpenses returns expenses in storage order.
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// AddExpense ignores e.ID and appends the expense with id max+1.
		AddExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
	}

	// Store is a complete backend. Mutations on missing ids return
	// core.ErrNotFound.
	Store interface {
		CategoryStore
		ExpenseStore
		// Ensure creates or upgrades the underlying storage.
		Ensure(ctx context.Context) error
		Close() error
	}
)
