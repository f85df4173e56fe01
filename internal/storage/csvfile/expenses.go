package csvfile

import (
	"context"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/log"
)

func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.loadExpenses()
}

func (s *Store) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return core.Expense{}, err
	}
	expenses, err := s.loadExpenses()
	if err != nil {
		return core.Expense{}, err
	}

	e.ID = core.NextExpenseID(expenses)
	if err := appendRows(s.expensesPath, expenseRows([]core.Expense{e})); err != nil {
		return core.Expense{}, err
	}
	s.logger.DebugContext(ctx, "Expense appended",
		log.NewFields().WithExpense(e.ID, e.Description, e.Amount, e.CategoryID).ToSlice()...)
	return e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return err
	}
	expenses, err := s.loadExpenses()
	if err != nil {
		return err
	}

	for i := range expenses {
		if expenses[i].ID == e.ID {
			expenses[i] = e
			return s.saveExpenses(expenses)
		}
	}
	return fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return err
	}
	expenses, err := s.loadExpenses()
	if err != nil {
		return err
	}

	remaining := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(expenses) {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return s.saveExpenses(remaining)
}
