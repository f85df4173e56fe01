package services

import (
	"context"
	"fmt"
	"sort"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// ExpenseService validates drafts, resolves their category and keeps the
// publisher informed of every stored change.
type ExpenseService struct {
	store      storage.ExpenseStore
	categories *CategoryService
	publisher  events.Publisher
	logger     *log.Logger
}

func NewExpenseService(store storage.ExpenseStore, categories *CategoryService, publisher events.Publisher, logger *log.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		store:      store,
		categories: categories,
		publisher:  publisher,
		logger:     logger.WithComponent(log.ComponentExpense),
	}
}

// List returns every expense, newest id first, with its category name.
func (s *ExpenseService) List(ctx context.Context) ([]core.ExpenseView, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	names, err := s.categories.Names(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]core.ExpenseView, len(expenses))
	for i, e := range expenses {
		views[i] = core.NewView(e, names)
	}
	sort.SliceStable(views, func(i, j int) bool {
		a, aok := core.NumericID(views[i].ID)
		b, bok := core.NumericID(views[j].ID)
		if aok != bok {
			return aok
		}
		return a > b
	})
	return views, nil
}

// Create validates the draft and appends it.
func (s *ExpenseService) Create(ctx context.Context, draft core.ExpenseDraft) (core.Expense, error) {
	parsed, category, err := s.prepare(ctx, draft)
	if err != nil {
		return core.Expense{}, err
	}

	e, err := s.store.AddExpense(ctx, parsed.Expense("", category.ID))
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithExpense(e.ID, e.Description, e.Amount, e.CategoryID).WithOperation(log.OpCreate).ToSlice()...)
	notify(ctx, s.publisher, s.logger, events.New(events.ExpenseCreated, e.ID, e))
	return e, nil
}

// Update replaces every field of expense id with the draft.
func (s *ExpenseService) Update(ctx context.Context, id string, draft core.ExpenseDraft) (core.Expense, error) {
	parsed, category, err := s.prepare(ctx, draft)
	if err != nil {
		return core.Expense{}, err
	}

	e := parsed.Expense(id, category.ID)
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithExpense(e.ID, e.Description, e.Amount, e.CategoryID).WithOperation(log.OpUpdate).ToSlice()...)
	notify(ctx, s.publisher, s.logger, events.New(events.ExpenseUpdated, e.ID, e))
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
	notify(ctx, s.publisher, s.logger, events.New(events.ExpenseDeleted, id, nil))
	return nil
}

// Summary totals every expense, grouped by category name.
func (s *ExpenseService) Summary(ctx context.Context) (core.Summary, error) {
	views, err := s.List(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.NewSummary(views), nil
}

func (s *ExpenseService) prepare(ctx context.Context, draft core.ExpenseDraft) (core.ParsedExpense, core.Category, error) {
	parsed, err := draft.Parse()
	if err != nil {
		return core.ParsedExpense{}, core.Category{}, err
	}
	category, err := s.categories.Resolve(ctx, parsed.Category)
	if err != nil {
		return core.ParsedExpense{}, core.Category{}, err
	}
	return parsed, category, nil
}
