package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	cats[0].Label = "changed"
	assert.Equal(t, "Salaire", Categories()[0].Label)
}

func TestCategoriesFor(t *testing.T) {
	var incomeIDs []string
	for _, c := range CategoriesFor(Income) {
		incomeIDs = append(incomeIDs, c.ID)
	}
	assert.Equal(t, []string{"salary", "freelance"}, incomeIDs)
	assert.Len(t, CategoriesFor(Expense), 4)
}

func TestCategoryLookups(t *testing.T) {
	c, ok := LookupCategory("rent")
	require.True(t, ok)
	assert.Equal(t, "Loyer", c.Label)
	assert.Equal(t, Expense, c.Type)

	_, ok = LookupCategory("Loyer")
	assert.False(t, ok, "labels are not ids")

	c, ok = CategoryByLabel("Loisirs")
	require.True(t, ok)
	assert.Equal(t, "entertainment", c.ID)
}

func TestResolveCategoryLabel(t *testing.T) {
	assert.Equal(t, "Courses", ResolveCategoryLabel("groceries"))
	assert.Equal(t, "Courses", ResolveCategoryLabel(" groceries "))
	assert.Equal(t, "Cadeaux", ResolveCategoryLabel("Cadeaux"))
}

func TestIsGroceryCategory(t *testing.T) {
	assert.True(t, IsGroceryCategory("Courses"))
	assert.False(t, IsGroceryCategory("groceries"))
	assert.False(t, IsGroceryCategory("Loyer"))
}
