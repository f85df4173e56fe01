package csvfile

import (
	"strconv"
	"strings"

	"gastos/internal/core"
)

// upgradeCategories converts the rows of a pre-id categories file (one name
// per row in the first column, header excluded). Names are de-duplicated
// keeping the first occurrence; the default category always comes first so
// that it receives id 1.
func upgradeCategories(rows [][]string) []core.Category {
	seen := map[string]bool{core.DefaultCategoryName: true}
	names := []string{core.DefaultCategoryName}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	out := make([]core.Category, len(names))
	for i, name := range names {
		out[i] = core.Category{ID: strconv.Itoa(i + 1), Name: name}
	}
	return out
}

// upgradeExpenses converts the rows of a pre-id expenses file laid out as
// data,descricao,valor,categoria,anotacao (header excluded). Category names
// are mapped onto existing ids; unknown names become new categories, returned
// separately so the caller can append them.
func upgradeExpenses(rows [][]string, categories []core.Category) ([]core.Expense, []core.Category) {
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		ids[c.Name] = c.ID
	}
	next, _ := core.NumericID(core.NextCategoryID(categories))

	var (
		expenses []core.Expense
		added    []core.Category
	)
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		name := strings.TrimSpace(row[3])
		if name == "" {
			name = core.DefaultCategoryName
		}
		id, ok := ids[name]
		if !ok {
			id = strconv.Itoa(next)
			next++
			ids[name] = id
			added = append(added, core.Category{ID: id, Name: name})
		}
		expenses = append(expenses, core.Expense{
			ID:          strconv.Itoa(len(expenses) + 1),
			Date:        strings.TrimSpace(row[0]),
			Description: strings.TrimSpace(row[1]),
			Amount:      strings.TrimSpace(row[2]),
			CategoryID:  id,
			Note:        strings.TrimSpace(row[4]),
		})
	}
	return expenses, added
}
