package spreadsheet

import (
	"context"
	"testing"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{Date: "01-01-2023", Description: "Compra A", Amount: decimal.RequireFromString("100.50")},
		{Date: "02-01-2023", Description: "Compra B", Amount: decimal.RequireFromString("200.75")},
	}
}

func openWorkbook(t *testing.T, fs afero.Fs, path string) *excelize.File {
	t.Helper()
	file, err := fs.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	f, err := excelize.OpenReader(file)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerate_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	gen, err := NewGenerator(fs)
	require.NoError(t, err)

	txs := sampleTransactions()
	require.NoError(t, gen.Generate(context.Background(), txs, "uploads/out.xlsx"))

	f := openWorkbook(t, fs, "uploads/out.xlsx")
	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, len(txs)+1)

	assert.Equal(t, []string{"Data", "Descrição", "Valor"}, rows[0])
	for i, tx := range txs {
		row := rows[i+1]
		require.Len(t, row, 3)
		assert.Equal(t, tx.Date, row[0])
		assert.Equal(t, tx.Description, row[1])

		amount, err := decimal.NewFromString(row[2])
		require.NoError(t, err)
		assert.True(t, tx.Amount.Equal(amount), "row %d: got %s", i+2, row[2])
	}
}

func TestGenerate_AmountFormatScopedToDataRows(t *testing.T) {
	fs := afero.NewMemMapFs()
	gen, err := NewGenerator(fs)
	require.NoError(t, err)

	require.NoError(t, gen.Generate(context.Background(), sampleTransactions(), "out.xlsx"))
	f := openWorkbook(t, fs, "out.xlsx")

	for _, cell := range []string{"C2", "C3"} {
		styleID, err := f.GetCellStyle(SheetName, cell)
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		assert.Equal(t, amountNumFmt, style.NumFmt, cell)
	}

	for _, cell := range []string{"C1", "C4", "A2", "B3"} {
		styleID, err := f.GetCellStyle(SheetName, cell)
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		assert.NotEqual(t, amountNumFmt, style.NumFmt, cell)
	}
}

func TestGenerate_ColumnWidthsFitContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	gen, err := NewGenerator(fs)
	require.NoError(t, err)

	txs := []domain.Transaction{
		{Date: "01-01-2023", Description: "Transferência recebida de cliente", Amount: decimal.RequireFromString("1234567.8")},
	}
	require.NoError(t, gen.Generate(context.Background(), txs, "out.xlsx"))
	f := openWorkbook(t, fs, "out.xlsx")

	width, err := f.GetColWidth(SheetName, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len([]rune("Transferência recebida de cliente"))+widthPadding), width)

	width, err = f.GetColWidth(SheetName, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len("1,234,567.80")+widthPadding), width)
}

func TestGenerate_EmptyInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	gen, err := NewGenerator(fs)
	require.NoError(t, err)

	err = gen.Generate(context.Background(), nil, "out.xlsx")
	assert.ErrorIs(t, err, domain.ErrEmptyResult)

	exists, err := afero.Exists(fs, "out.xlsx")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerate_UnwritablePath(t *testing.T) {
	gen, err := NewGenerator(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	err = gen.Generate(context.Background(), sampleTransactions(), "out.xlsx")
	assert.ErrorIs(t, err, domain.ErrWrite)
}

func TestNewGenerator_NilFs(t *testing.T) {
	_, err := NewGenerator(nil)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "100.5", expected: "100.50"},
		{input: "200.75", expected: "200.75"},
		{input: "1000.5", expected: "1,000.50"},
		{input: "1234567.891", expected: "1,234,567.89"},
		{input: "-2500", expected: "-2,500.00"},
		{input: "-0.001", expected: "0.00"},
		{input: "0", expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(decimal.RequireFromString(tt.input)))
		})
	}
}
