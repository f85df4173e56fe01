package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultCategoryID is the fallback category. It always exists and cannot be deleted.
	DefaultCategoryID   = "1"
	DefaultCategoryName = "Outros"

	// RemovedCategoryName is shown for expenses whose category no longer exists.
	RemovedCategoryName = "Categoria removida"

	DateLayout = "2006-01-02"
)

type (
	Date struct {
		time.Time
	}

	Category struct {
		ID   string
		Name string
	}

	// Expense is a persisted row. Amount keeps the stored decimal string so that
	// rewriting a file never alters rows the user did not touch.
	Expense struct {
		ID          string
		Date        string
		Description string
		Amount      string
		CategoryID  string
		Note        string
	}
)

var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmptyCategoryName = errors.New("empty category name")
	ErrDuplicateCategory = errors.New("duplicate category name")
	ErrDefaultCategory   = errors.New("default category cannot be removed")
	ErrNotFound          = errors.New("not found")
)

// ParseDate accepts YYYY-MM-DD, tolerating single-digit month and day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-1-2", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the zero-padded ISO form used in storage.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// NumericID returns the integer value of an id, or ok=false for non-numeric ids.
func NumericID(id string) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextID returns max(numeric ids)+1 as a string. Non-numeric ids are skipped.
func NextID(ids []string) string {
	maxID := 0
	for _, id := range ids {
		if n, ok := NumericID(id); ok && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

// NextCategoryID allocates the id for a new category.
func NextCategoryID(categories []Category) string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return NextID(ids)
}

// NextExpenseID allocates the id for a new expense.
func NextExpenseID(expenses []Expense) string {
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	return NextID(ids)
}

// SameName compares category names the way uniqueness is enforced.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsDefault reports whether c is the fallback category.
func (c Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}
