package csvfile

import (
	"context"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/log"
)

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.loadCategories()
}

func (s *Store) AddCategory(ctx context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return core.Category{}, err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return core.Category{}, err
	}

	c := core.Category{ID: core.NextCategoryID(categories), Name: name}
	if err := appendRows(s.categoriesPath, categoryRows([]core.Category{c})); err != nil {
		return core.Category{}, err
	}
	s.logger.DebugContext(ctx, "Category appended", log.NewFields().WithCategory(c.ID, c.Name).ToSlice()...)
	return c, nil
}

func (s *Store) RenameCategory(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return err
	}

	found := false
	for i := range categories {
		if categories[i].ID == id {
			categories[i].Name = name
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return s.saveCategories(categories)
}

// DeleteCategory moves the expenses of the category to the default category
// first, then drops the category row.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if id == core.DefaultCategoryID {
		return core.ErrDefaultCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensure(ctx); err != nil {
		return err
	}
	categories, err := s.loadCategories()
	if err != nil {
		return err
	}

	remaining := make([]core.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == len(categories) {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}

	moved, err := s.reassignExpenses(id, core.DefaultCategoryID)
	if err != nil {
		return fmt.Errorf("reassign expenses: %w", err)
	}
	if err := s.saveCategories(remaining); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Category removed",
		log.FieldCategoryID, id,
		log.FieldOperation, log.OpDelete,
		"reassigned_expenses", moved)
	return nil
}

func (s *Store) reassignExpenses(from, to string) (int, error) {
	expenses, err := s.loadExpenses()
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range expenses {
		if expenses[i].CategoryID == from {
			expenses[i].CategoryID = to
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}
	return moved, s.saveExpenses(expenses)
}
