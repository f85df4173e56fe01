package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type categoryRow struct {
	ID   int64
	Name string
}

type expenseRow struct {
	ID          int64
	Date        string
	Description string
	Amount      string
	CategoryID  string
	Note        string
}

const listCategories = `SELECT id, name FROM categories ORDER BY id`

func (q *Queries) ListCategories(ctx context.Context) ([]categoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []categoryRow
	for rows.Next() {
		var i categoryRow
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// rowid allocation in SQLite is max(id)+1 when AUTOINCREMENT is not used.
const createCategory = `INSERT INTO categories (name) VALUES (?)`

func (q *Queries) CreateCategory(ctx context.Context, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, createCategory, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const renameCategory = `UPDATE categories SET name = ? WHERE id = ?`

func (q *Queries) RenameCategory(ctx context.Context, id int64, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, renameCategory, name, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const reassignExpenses = `UPDATE expenses SET category_id = ? WHERE category_id = ?`

func (q *Queries) ReassignExpenses(ctx context.Context, from, to string) (int64, error) {
	res, err := q.db.ExecContext(ctx, reassignExpenses, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listExpenses = `SELECT id, date, description, amount, category_id, note FROM expenses ORDER BY id`

func (q *Queries) ListExpenses(ctx context.Context) ([]expenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []expenseRow
	for rows.Next() {
		var i expenseRow
		if err := rows.Scan(&i.ID, &i.Date, &i.Description, &i.Amount, &i.CategoryID, &i.Note); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createExpense = `INSERT INTO expenses (date, description, amount, category_id, note) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) CreateExpense(ctx context.Context, e expenseRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense, e.Date, e.Description, e.Amount, e.CategoryID, e.Note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const updateExpense = `UPDATE expenses SET date = ?, description = ?, amount = ?, category_id = ?, note = ? WHERE id = ?`

func (q *Queries) UpdateExpense(ctx context.Context, e expenseRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateExpense, e.Date, e.Description, e.Amount, e.CategoryID, e.Note, e.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
