// Package sqlite is the database backed alternative to the csv files, with
// the same semantics.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gastos/internal/core"
	"gastos/internal/log"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db      *sql.DB
	path    string
	queries *Queries
	logger  *log.Logger
}

func NewRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time, like the csv store's mutex
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &Repository{
		db:      db,
		path:    dbPath,
		queries: NewQueries(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}
	if err := repo.Ensure(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Ensure applies pending migrations.
func (r *Repository) Ensure(ctx context.Context) error {
	if err := RunMigrations(r.path); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	r.logger.DebugContext(ctx, "Schema up to date", log.FieldFile, r.path, log.FieldOperation, log.OpMigrate)
	return nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = core.Category{ID: formatID(row.ID), Name: row.Name}
	}
	return out, nil
}

func (r *Repository) AddCategory(ctx context.Context, name string) (core.Category, error) {
	id, err := r.queries.CreateCategory(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c := core.Category{ID: formatID(id), Name: name}
	r.logger.DebugContext(ctx, "Category saved to SQLite", log.NewFields().WithCategory(c.ID, c.Name).ToSlice()...)
	return c, nil
}

func (r *Repository) RenameCategory(ctx context.Context, id, name string) error {
	n, err := parseID(id)
	if err != nil {
		return fmt.Errorf("category %s: %w", id, err)
	}
	affected, err := r.queries.RenameCategory(ctx, n, name)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// DeleteCategory reassigns and deletes in a single transaction.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return fmt.Errorf("category %s: %w", id, err)
	}
	if id == core.DefaultCategoryID {
		return core.ErrDefaultCategory
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	moved, err := q.ReassignExpenses(ctx, formatID(n), core.DefaultCategoryID)
	if err != nil {
		return fmt.Errorf("reassign expenses: %w", err)
	}
	affected, err := q.DeleteCategory(ctx, n)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.InfoContext(ctx, "Category removed",
		log.FieldCategoryID, id,
		log.FieldOperation, log.OpDelete,
		"reassigned_expenses", moved)
	return nil
}

func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, row := range rows {
		out[i] = core.Expense{
			ID:          formatID(row.ID),
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount,
			CategoryID:  row.CategoryID,
			Note:        row.Note,
		}
	}
	return out, nil
}

func (r *Repository) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	id, err := r.queries.CreateExpense(ctx, toRow(0, e))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	e.ID = formatID(id)

	r.logger.DebugContext(ctx, "Expense saved to SQLite",
		log.NewFields().WithExpense(e.ID, e.Description, e.Amount, e.CategoryID).ToSlice()...)
	return e, nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	n, err := parseID(e.ID)
	if err != nil {
		return fmt.Errorf("expense %s: %w", e.ID, err)
	}
	affected, err := r.queries.UpdateExpense(ctx, toRow(n, e))
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return fmt.Errorf("expense %s: %w", id, err)
	}
	affected, err := r.queries.DeleteExpense(ctx, n)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func toRow(id int64, e core.Expense) expenseRow {
	return expenseRow{
		ID:          id,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
		Note:        e.Note,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID accepts only the canonical decimal form the store hands out, so
// "01", "+2" or " 2" never alias an existing row.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || formatID(n) != id {
		return 0, core.ErrNotFound
	}
	return n, nil
}
