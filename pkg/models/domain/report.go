package domain

import "github.com/shopspring/decimal"

// Report represents the outcome of a local conversion
type Report struct {
	Title        string
	Source       string
	Output       string
	Backend      string
	Transactions []Transaction
	TotalAmount  decimal.Decimal
}

// NewReport sums the transaction amounts into a report
func NewReport(title, source, output, backend string, txs []Transaction) *Report {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return &Report{
		Title:        title,
		Source:       source,
		Output:       output,
		Backend:      backend,
		Transactions: txs,
		TotalAmount:  total,
	}
}
