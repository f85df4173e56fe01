package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "db", "gastos.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestNewRepositorySeedsDefaultCategory(t *testing.T) {
	repo := newTestRepository(t)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}}, categories)

	// migrations are idempotent
	require.NoError(t, repo.Ensure(context.Background()))
}

func TestRepositoryCategories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	casa, err := repo.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	assert.Equal(t, "2", casa.ID)

	require.NoError(t, repo.RenameCategory(ctx, "2", "Moradia"))
	assert.ErrorIs(t, repo.RenameCategory(ctx, "9", "x"), core.ErrNotFound)
	assert.ErrorIs(t, repo.RenameCategory(ctx, "abc", "x"), core.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteCategory(ctx, "1"), core.ErrDefaultCategory)
	assert.ErrorIs(t, repo.DeleteCategory(ctx, "9"), core.ErrNotFound)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}, {ID: "2", Name: "Moradia"}}, categories)
}

func TestRepositoryDeleteCategoryReassigns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	casa, err := repo.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	_, err = repo.AddExpense(ctx, core.Expense{Date: "2025-01-01", Description: "Aluguel", Amount: "900.00", CategoryID: casa.ID})
	require.NoError(t, err)
	_, err = repo.AddExpense(ctx, core.Expense{Date: "2025-01-02", Description: "Pão", Amount: "3.00", CategoryID: "1"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCategory(ctx, casa.ID))

	expenses, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.Equal(t, core.DefaultCategoryID, e.CategoryID, e.Description)
	}

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestRepositoryExpenses(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a, err := repo.AddExpense(ctx, core.Expense{Date: "2025-03-01", Description: "Café", Amount: "4.50", CategoryID: "1", Note: "manhã"})
	require.NoError(t, err)
	b, err := repo.AddExpense(ctx, core.Expense{Date: "2025-03-02", Description: "Livro", Amount: "59.90", CategoryID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "2", b.ID)

	a.Description = "Café expresso"
	require.NoError(t, repo.UpdateExpense(ctx, a))
	assert.ErrorIs(t, repo.UpdateExpense(ctx, core.Expense{ID: "99"}), core.ErrNotFound)

	expenses, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Expense{a, b}, expenses)

	require.NoError(t, repo.DeleteExpense(ctx, b.ID))
	assert.ErrorIs(t, repo.DeleteExpense(ctx, b.ID), core.ErrNotFound)

	c, err := repo.AddExpense(ctx, core.Expense{Date: "2025-03-03", Description: "Suco", Amount: "8.00", CategoryID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "2", c.ID)
}

func TestRepositoryRejectsNonCanonicalIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	casa, err := repo.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	e, err := repo.AddExpense(ctx, core.Expense{Date: "2025-01-01", Description: "Aluguel", Amount: "900.00", CategoryID: casa.ID})
	require.NoError(t, err)

	for _, id := range []string{"01", "+1", " 1", "02", "+2", " 2", "2 "} {
		assert.ErrorIs(t, repo.DeleteCategory(ctx, id), core.ErrNotFound, id)
		assert.ErrorIs(t, repo.RenameCategory(ctx, id, "x"), core.ErrNotFound, id)
		assert.ErrorIs(t, repo.DeleteExpense(ctx, "0"+e.ID), core.ErrNotFound, id)
	}
	updated := e
	updated.ID = "+" + e.ID
	assert.ErrorIs(t, repo.UpdateExpense(ctx, updated), core.ErrNotFound)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}, {ID: "2", Name: "Casa"}}, categories)

	expenses, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, casa.ID, expenses[0].CategoryID)
}
