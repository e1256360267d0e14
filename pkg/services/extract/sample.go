package extract

import (
	"context"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

// Sample ignores the document and always yields the same two purchases.
// It stands in until a real parser is configured.
type Sample struct{}

func SampleFactory(_ afero.Fs) (Extractor, error) {
	return Sample{}, nil
}

func (Sample) Extract(_ context.Context, _ string) ([]domain.Transaction, error) {
	return []domain.Transaction{
		{Date: "01-01-2023", Description: "Compra A", Amount: decimal.RequireFromString("100.50")},
		{Date: "02-01-2023", Description: "Compra B", Amount: decimal.RequireFromString("200.75")},
	}, nil
}
