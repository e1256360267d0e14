package domain

import "github.com/shopspring/decimal"

// Transaction is one movement extracted from a statement.
type Transaction struct {
	Date        string          // 01-01-2023
	Description string          // Compra A
	Amount      decimal.Decimal // 100.50
}
