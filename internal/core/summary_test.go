package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSummary(t *testing.T) {
	names := map[string]string{"1": "Outros", "2": "casa", "3": "Alimentação"}
	items := []ExpenseView{
		NewView(Expense{ID: "1", Amount: "10.00", CategoryID: "2"}, names),
		NewView(Expense{ID: "2", Amount: "5,25", CategoryID: "3"}, names),
		NewView(Expense{ID: "3", Amount: "2.75", CategoryID: "2"}, names),
		NewView(Expense{ID: "4", Amount: "1.00", CategoryID: "9"}, names),
		NewView(Expense{ID: "5", Amount: "oops", CategoryID: "1"}, names),
	}

	s := NewSummary(items)
	assert.Equal(t, "19.00", FormatAmount(s.Total))
	assert.Equal(t, []string{"Alimentação", "casa", "Categoria removida", "Outros"}, s.ChartLabels())
	assert.Equal(t, []float64{5.25, 12.75, 1, 0}, s.ChartValues())
}

func TestNewViewOrphanKeepsCategoryID(t *testing.T) {
	v := NewView(Expense{ID: "1", CategoryID: "42", Amount: "1"}, map[string]string{"1": "Outros"})
	assert.Equal(t, RemovedCategoryName, v.CategoryName)
	assert.Equal(t, "42", v.CategoryID)
}
