// Package csvfile stores categories and expenses in two flat csv files that
// are read in full and rewritten in full on every change.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gastos/internal/core"
	"gastos/internal/log"
)

const (
	CategoriesFile = "categories.csv"
	ExpensesFile   = "expenses.csv"
)

var (
	categoriesHeader = []string{"id", "nome"}
	expensesHeader   = []string{"id", "data", "descricao", "valor", "categoria_id", "anotacao"}
)

// Store serializes the operations of one process on the data directory.
// Other processes writing the same files are not coordinated with.
type Store struct {
	mu             sync.Mutex
	dir            string
	categoriesPath string
	expensesPath   string
	logger         *log.Logger
}

func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		dir:            dir,
		categoriesPath: filepath.Join(dir, CategoriesFile),
		expensesPath:   filepath.Join(dir, ExpensesFile),
		logger:         logger.WithComponent(log.ComponentStorage),
	}
}

func (s *Store) Close() error { return nil }

// Ensure creates missing files and upgrades legacy ones.
func (s *Store) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(ctx)
}

func (s *Store) ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	// categories first: the expenses upgrade maps names onto category ids
	if err := s.ensureCategories(ctx); err != nil {
		return err
	}
	return s.ensureExpenses(ctx)
}

func (s *Store) ensureCategories(ctx context.Context) error {
	rows, err := readRows(s.categoriesPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.writeFreshCategories()
	case err != nil:
		return err
	case len(rows) == 0:
		return s.writeFreshCategories()
	case isCurrentHeader(rows[0]):
		return nil
	}

	upgraded := upgradeCategories(rows[1:])
	if err := s.saveCategories(upgraded); err != nil {
		return fmt.Errorf("upgrade categories: %w", err)
	}
	s.logger.InfoContext(ctx, "Upgraded legacy categories file",
		log.FieldFile, s.categoriesPath,
		log.FieldOperation, log.OpMigrate,
		log.FieldCount, len(upgraded))
	return nil
}

func (s *Store) writeFreshCategories() error {
	return writeRows(s.categoriesPath, categoriesHeader, [][]string{
		{core.DefaultCategoryID, core.DefaultCategoryName},
	})
}

func (s *Store) ensureExpenses(ctx context.Context) error {
	rows, err := readRows(s.expensesPath)
	switch {
	case errors.Is(err, fs.ErrNotExist), err == nil && len(rows) == 0:
		return writeRows(s.expensesPath, expensesHeader, nil)
	case err != nil:
		return err
	case isCurrentHeader(rows[0]):
		return nil
	}

	categories, err := s.loadCategories()
	if err != nil {
		return err
	}
	expenses, added := upgradeExpenses(rows[1:], categories)
	if err := s.saveExpenses(expenses); err != nil {
		return fmt.Errorf("upgrade expenses: %w", err)
	}
	if len(added) > 0 {
		if err := appendRows(s.categoriesPath, categoryRows(added)); err != nil {
			return fmt.Errorf("append migrated categories: %w", err)
		}
	}
	s.logger.InfoContext(ctx, "Upgraded legacy expenses file",
		log.FieldFile, s.expensesPath,
		log.FieldOperation, log.OpMigrate,
		log.FieldCount, len(expenses),
		"new_categories", len(added))
	return nil
}

func (s *Store) loadCategories() ([]core.Category, error) {
	rows, err := readRows(s.categoriesPath)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols := newColumns(rows[0])
	out := make([]core.Category, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id, name := cols.get(row, "id"), cols.get(row, "nome")
		if id == "" || name == "" {
			continue
		}
		out = append(out, core.Category{ID: id, Name: name})
	}
	return out, nil
}

func (s *Store) loadExpenses() ([]core.Expense, error) {
	rows, err := readRows(s.expensesPath)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols := newColumns(rows[0])
	out := make([]core.Expense, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := cols.get(row, "id")
		if id == "" {
			continue
		}
		out = append(out, core.Expense{
			ID:          id,
			Date:        cols.get(row, "data"),
			Description: cols.get(row, "descricao"),
			Amount:      cols.get(row, "valor"),
			CategoryID:  cols.get(row, "categoria_id"),
			Note:        cols.get(row, "anotacao"),
		})
	}
	return out, nil
}

func (s *Store) saveCategories(categories []core.Category) error {
	return writeRows(s.categoriesPath, categoriesHeader, categoryRows(categories))
}

func (s *Store) saveExpenses(expenses []core.Expense) error {
	return writeRows(s.expensesPath, expensesHeader, expenseRows(expenses))
}

func categoryRows(categories []core.Category) [][]string {
	rows := make([][]string, len(categories))
	for i, c := range categories {
		rows[i] = []string{c.ID, c.Name}
	}
	return rows
}

func expenseRows(expenses []core.Expense) [][]string {
	rows := make([][]string, len(expenses))
	for i, e := range expenses {
		rows[i] = []string{e.ID, e.Date, e.Description, e.Amount, e.CategoryID, e.Note}
	}
	return rows
}
