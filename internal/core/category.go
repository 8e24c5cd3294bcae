package core

import "strings"

// Category is an entry of the fixed category registry.
type Category struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Type  TransactionType `json:"type"`
}

const (
	// AllCategories selects every category in filters.
	AllCategories = "all"

	GroceriesID    = "groceries"
	GroceriesLabel = "Courses"
)

var registry = []Category{
	{ID: "salary", Label: "Salaire", Type: Income},
	{ID: "freelance", Label: "Freelance", Type: Income},
	{ID: "rent", Label: "Loyer", Type: Expense},
	{ID: GroceriesID, Label: GroceriesLabel, Type: Expense},
	{ID: "transport", Label: "Transport", Type: Expense},
	{ID: "entertainment", Label: "Loisirs", Type: Expense},
}

// Categories returns a copy of the registry in display order.
func Categories() []Category {
	return append([]Category(nil), registry...)
}

// CategoriesFor returns the categories usable with the given transaction type.
func CategoriesFor(t TransactionType) []Category {
	var out []Category
	for _, c := range registry {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// LookupCategory finds a category by id.
func LookupCategory(id string) (Category, bool) {
	for _, c := range registry {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByLabel finds a category by its display label.
func CategoryByLabel(label string) (Category, bool) {
	for _, c := range registry {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveCategoryLabel maps a category id to its label. Unknown ids are
// returned unchanged so free-text categories are never blocked.
func ResolveCategoryLabel(idOrLabel string) string {
	s := strings.TrimSpace(idOrLabel)
	if c, ok := LookupCategory(s); ok {
		return c.Label
	}
	return s
}

// IsGroceryCategory reports whether a stored category label denotes groceries.
func IsGroceryCategory(label string) bool {
	return label == GroceriesLabel
}
