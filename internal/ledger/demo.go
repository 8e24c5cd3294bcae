package ledger

import (
	"github.com/shopspring/decimal"

	"financeflow/internal/core"
)

// DemoTransactions returns the sample list shown to users with no saved data.
func DemoTransactions() []core.Transaction {
	tx := func(id int64, t core.TransactionType, amount int64, category string, day int) core.Transaction {
		return core.Transaction{
			ID:       id,
			Type:     t,
			Amount:   decimal.NewFromInt(amount),
			Category: category,
			Date:     core.NewDate(2024, 3, day),
		}
	}
	return []core.Transaction{
		tx(1, core.Income, 3000, "Salaire", 1),
		tx(2, core.Expense, -500, "Loyer", 2),
		tx(3, core.Expense, -200, "Courses", 3),
		tx(4, core.Expense, -150, "Transport", 4),
		tx(5, core.Income, 500, "Freelance", 5),
	}
}
