package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), nil)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestEnsureCreatesFreshFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir, nil)

	require.NoError(t, s.Ensure(context.Background()))

	assert.Equal(t, "id,nome\n1,Outros\n", readFile(t, filepath.Join(dir, CategoriesFile)))
	assert.Equal(t, "id,data,descricao,valor,categoria_id,anotacao\n", readFile(t, filepath.Join(dir, ExpensesFile)))
}

func TestEnsureRewritesEmptyFiles(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.categoriesPath, "\n , \n")
	writeFile(t, s.expensesPath, "")

	require.NoError(t, s.Ensure(context.Background()))

	assert.Equal(t, "id,nome\n1,Outros\n", readFile(t, s.categoriesPath))
	assert.Equal(t, "id,data,descricao,valor,categoria_id,anotacao\n", readFile(t, s.expensesPath))
}

func TestEnsureLeavesCurrentFilesAlone(t *testing.T) {
	s := newTestStore(t)
	cats := "id,nome\n1,Outros\n3,Casa\n"
	exps := "id,data,descricao,valor,categoria_id,anotacao\n5,2025-01-01,Pão,3.5,3,\n"
	writeFile(t, s.categoriesPath, cats)
	writeFile(t, s.expensesPath, exps)

	require.NoError(t, s.Ensure(context.Background()))

	assert.Equal(t, cats, readFile(t, s.categoriesPath))
	assert.Equal(t, exps, readFile(t, s.expensesPath))
}

func TestLegacyMigration(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.categoriesPath, "nome\nCasa\nMercado\n\nCasa\n  Lazer  \nOutros\n")
	writeFile(t, s.expensesPath, "data,descricao,valor,categoria,anotacao\n"+
		"2025-01-02,Aluguel,1500,Casa,janeiro\n"+
		"2025-01-03,Cinema,40,Cultura,\n"+
		"2025-01-04,Curto,1\n"+
		"2025-01-05,Sem categoria,10,,nota\n"+
		"2025-01-06,Teatro,80,Cultura,\n")

	ctx := context.Background()
	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{
		{ID: "1", Name: "Outros"},
		{ID: "2", Name: "Casa"},
		{ID: "3", Name: "Mercado"},
		{ID: "4", Name: "Lazer"},
		{ID: "5", Name: "Cultura"},
	}, categories)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Expense{
		{ID: "1", Date: "2025-01-02", Description: "Aluguel", Amount: "1500", CategoryID: "2", Note: "janeiro"},
		{ID: "2", Date: "2025-01-03", Description: "Cinema", Amount: "40", CategoryID: "5"},
		{ID: "3", Date: "2025-01-05", Description: "Sem categoria", Amount: "10", CategoryID: "1", Note: "nota"},
		{ID: "4", Date: "2025-01-06", Description: "Teatro", Amount: "80", CategoryID: "5"},
	}, expenses)

	// a second pass is a no-op
	before := readFile(t, s.expensesPath)
	require.NoError(t, s.Ensure(ctx))
	assert.Equal(t, before, readFile(t, s.expensesPath))
}

func TestLoadSkipsIncompleteRows(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.categoriesPath, "id,nome\n1,Outros\n,SemID\n2,\n3, Casa \n")
	writeFile(t, s.expensesPath, "id,data,descricao,valor,categoria_id,anotacao\n,2025-01-01,x,1,1,\n 2 ,2025-01-01, y ,1.5,3\n")

	ctx := context.Background()
	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}, {ID: "3", Name: "Casa"}}, categories)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, core.Expense{ID: "2", Date: "2025-01-01", Description: "y", Amount: "1.5", CategoryID: "3"}, expenses[0])
}

func TestAppendAfterMissingTrailingNewline(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.categoriesPath, "id,nome\n1,Outros")
	writeFile(t, s.expensesPath, "id,data,descricao,valor,categoria_id,anotacao\n1,2025-01-01,Pão,3.00,1,")

	ctx := context.Background()
	casa, err := s.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	assert.Equal(t, "2", casa.ID)
	assert.Equal(t, "id,nome\n1,Outros\n2,Casa\n", readFile(t, s.categoriesPath))

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}, {ID: "2", Name: "Casa"}}, categories)

	_, err = s.AddExpense(ctx, core.Expense{Date: "2025-01-02", Description: "Leite", Amount: "6.00", CategoryID: "1"})
	require.NoError(t, err)
	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Pão", expenses[0].Description)
	assert.Equal(t, "2", expenses[1].ID)
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	casa, err := s.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	assert.Equal(t, "2", casa.ID)

	require.NoError(t, s.RenameCategory(ctx, casa.ID, "Moradia"))
	assert.ErrorIs(t, s.RenameCategory(ctx, "99", "x"), core.ErrNotFound)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Category{{ID: "1", Name: "Outros"}, {ID: "2", Name: "Moradia"}}, categories)

	assert.ErrorIs(t, s.DeleteCategory(ctx, "1"), core.ErrDefaultCategory)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "42"), core.ErrNotFound)
}

func TestDeleteCategoryReassignsExpenses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	casa, err := s.AddCategory(ctx, "Casa")
	require.NoError(t, err)
	lazer, err := s.AddCategory(ctx, "Lazer")
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, core.Expense{Date: "2025-01-01", Description: "Aluguel", Amount: "1000.00", CategoryID: casa.ID})
	require.NoError(t, err)
	_, err = s.AddExpense(ctx, core.Expense{Date: "2025-01-02", Description: "Cinema", Amount: "30.00", CategoryID: lazer.ID})
	require.NoError(t, err)
	_, err = s.AddExpense(ctx, core.Expense{Date: "2025-01-03", Description: "Luz", Amount: "200.00", CategoryID: casa.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, casa.ID))

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	got := map[string]string{}
	for _, e := range expenses {
		got[e.Description] = e.CategoryID
	}
	assert.Equal(t, map[string]string{"Aluguel": "1", "Cinema": lazer.ID, "Luz": "1"}, got)
}

func TestExpenseLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.AddExpense(ctx, core.Expense{Date: "2025-02-01", Description: "Café, com leite", Amount: "4.50", CategoryID: "1", Note: `diz "oi"`})
	require.NoError(t, err)
	b, err := s.AddExpense(ctx, core.Expense{Date: "2025-02-02", Description: "Pão", Amount: "2.00", CategoryID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "2", b.ID)

	a.Amount = "5.00"
	require.NoError(t, s.UpdateExpense(ctx, a))
	assert.ErrorIs(t, s.UpdateExpense(ctx, core.Expense{ID: "77"}), core.ErrNotFound)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, a, expenses[0])

	// deleting the highest id lets the next insert reuse it
	require.NoError(t, s.DeleteExpense(ctx, b.ID))
	assert.ErrorIs(t, s.DeleteExpense(ctx, b.ID), core.ErrNotFound)
	c, err := s.AddExpense(ctx, core.Expense{Date: "2025-02-03", Description: "Suco", Amount: "7.00", CategoryID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "2", c.ID)
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListCategories(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
