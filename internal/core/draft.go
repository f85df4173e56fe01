package core

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := ParseAmount(fl.Field().String())
		return err == nil
	})

	return v
}

// ExpenseDraft is an expense as typed in a form, before any validation.
// Category holds either a category id or a category name.
type ExpenseDraft struct {
	Date        string `validate:"required,isodate"`
	Description string `validate:"required"`
	Amount      string `validate:"required,amount"`
	Category    string `validate:"required"`
	Note        string
}

// ParsedExpense is a draft that passed validation. The category is still
// unresolved.
type ParsedExpense struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	Category    string
	Note        string
}

// Trimmed returns the draft with every field trimmed.
func (d ExpenseDraft) Trimmed() ExpenseDraft {
	return ExpenseDraft{
		Date:        strings.TrimSpace(d.Date),
		Description: strings.TrimSpace(d.Description),
		Amount:      strings.TrimSpace(d.Amount),
		Category:    strings.TrimSpace(d.Category),
		Note:        strings.TrimSpace(d.Note),
	}
}

// Validate checks the draft. Missing fields win over a bad date, which wins
// over a bad amount, so the user sees one message at a time.
func (d ExpenseDraft) Validate() error {
	err := validate.Struct(d.Trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var dateErr, amountErr bool
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return ErrMissingFields
		case "isodate":
			dateErr = true
		case "amount":
			amountErr = true
		}
	}
	switch {
	case dateErr:
		return ErrInvalidDate
	case amountErr:
		return ErrInvalidAmount
	}
	return err
}

// Parse validates the draft and converts its fields.
func (d ExpenseDraft) Parse() (ParsedExpense, error) {
	if err := d.Validate(); err != nil {
		return ParsedExpense{}, err
	}
	t := d.Trimmed()
	date, err := ParseDate(t.Date)
	if err != nil {
		return ParsedExpense{}, err
	}
	amount, err := ParseAmount(t.Amount)
	if err != nil {
		return ParsedExpense{}, err
	}
	return ParsedExpense{
		Date:        date,
		Description: t.Description,
		Amount:      amount,
		Category:    t.Category,
		Note:        t.Note,
	}, nil
}

// Expense builds the row to persist once the category id is known.
func (p ParsedExpense) Expense(id, categoryID string) Expense {
	return Expense{
		ID:          id,
		Date:        p.Date.String(),
		Description: p.Description,
		Amount:      FormatAmount(p.Amount),
		CategoryID:  categoryID,
		Note:        p.Note,
	}
}
