package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gastos/internal/core"
	"gastos/internal/events"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// CategoryService enforces the category rules on top of a store: names are
// unique ignoring case and the default category is permanent.
type CategoryService struct {
	store     storage.CategoryStore
	publisher events.Publisher
	logger    *log.Logger
}

func NewCategoryService(store storage.CategoryStore, publisher events.Publisher, logger *log.Logger) *CategoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &CategoryService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentCategory),
	}
}

// List returns categories sorted by name, ignoring case.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

// Names maps category ids to names.
func (s *CategoryService) Names(ctx context.Context) (map[string]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyCategoryName
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return core.Category{}, fmt.Errorf("list categories: %w", err)
	}
	// Checked outside the store lock; concurrent requests are not coordinated.
	if nameTaken(categories, name, "") {
		return core.Category{}, core.ErrDuplicateCategory
	}

	c, err := s.store.AddCategory(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category created", log.NewFields().WithCategory(c.ID, c.Name).WithOperation(log.OpCreate).ToSlice()...)
	notify(ctx, s.publisher, s.logger, events.New(events.CategoryCreated, c.ID, c))
	return c, nil
}

func (s *CategoryService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategoryName
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if !hasCategory(categories, id) {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	// Same as Create: not atomic with the rename below.
	if nameTaken(categories, name, id) {
		return core.ErrDuplicateCategory
	}

	if err := s.store.RenameCategory(ctx, id, name); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category renamed", log.NewFields().WithCategory(id, name).WithOperation(log.OpUpdate).ToSlice()...)
	notify(ctx, s.publisher, s.logger, events.New(events.CategoryRenamed, id, core.Category{ID: id, Name: name}))
	return nil
}

// Delete removes a category; its expenses move to the default category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if id == core.DefaultCategoryID {
		return core.ErrDefaultCategory
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	notify(ctx, s.publisher, s.logger, events.New(events.CategoryDeleted, id, nil))
	return nil
}

// Resolve finds a category by exact id or by name ignoring case.
func (s *CategoryService) Resolve(ctx context.Context, identifier string) (core.Category, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return core.Category{}, core.ErrCategoryNotFound
	}
	categories, err := s.List(ctx)
	if err != nil {
		return core.Category{}, err
	}
	lowered := strings.ToLower(identifier)
	for _, c := range categories {
		if c.ID == identifier || strings.ToLower(c.Name) == lowered {
			return c, nil
		}
	}
	return core.Category{}, core.ErrCategoryNotFound
}

// nameTaken reports whether another category than exceptID already uses name.
func nameTaken(categories []core.Category, name, exceptID string) bool {
	for _, c := range categories {
		if c.ID != exceptID && core.SameName(c.Name, name) {
			return true
		}
	}
	return false
}

func hasCategory(categories []core.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
