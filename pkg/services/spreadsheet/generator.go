package spreadsheet

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Extrato"

	// builtin format 4 is "#,##0.00"
	amountNumFmt = 4
	widthPadding = 2
	defaultSheet = "Sheet1"
)

// Header is the first row of every generated sheet.
var Header = []string{"Data", "Descrição", "Valor"}

// Generator writes transactions to an OOXML workbook.
type Generator interface {
	Generate(ctx context.Context, txs []domain.Transaction, path string) error
}

type xlsxGenerator struct {
	fs afero.Fs
}

func NewGenerator(fs afero.Fs) (Generator, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is nil")
	}
	return &xlsxGenerator{fs: fs}, nil
}

func (g *xlsxGenerator) Generate(ctx context.Context, txs []domain.Transaction, path string) error {
	if len(txs) == 0 {
		return domain.ErrEmptyResult
	}

	f, err := build(txs)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	defer f.Close()

	out, err := g.fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrWrite, path, err)
	}

	if err := f.Write(out); err != nil {
		out.Close()
		_ = g.fs.Remove(path)
		return fmt.Errorf("%w: serialize %s: %v", domain.ErrWrite, path, err)
	}
	if err := out.Close(); err != nil {
		_ = g.fs.Remove(path)
		return fmt.Errorf("%w: close %s: %v", domain.ErrWrite, path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("rows", len(txs)+1).
		Msg("spreadsheet written")
	return nil
}

func build(txs []domain.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	widths := make([]int, len(Header))
	for i, label := range Header {
		header[i] = label
		widths[i] = utf8.RuneCountInString(label)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, tx := range txs {
		row := i + 2
		if err := writeRow(f, row, tx); err != nil {
			f.Close()
			return nil, err
		}
		widths[0] = max(widths[0], utf8.RuneCountInString(tx.Date))
		widths[1] = max(widths[1], utf8.RuneCountInString(tx.Description))
		widths[2] = max(widths[2], len(FormatAmount(tx.Amount)))
	}

	if err := formatAmounts(f, len(txs)); err != nil {
		f.Close()
		return nil, err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(width+widthPadding)); err != nil {
			f.Close()
			return nil, fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, row int, tx domain.Transaction) error {
	dateCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, dateCell, &[]interface{}{tx.Date, tx.Description}); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}

	amountCell, err := excelize.CoordinatesToCellName(3, row)
	if err != nil {
		return err
	}
	if err := f.SetCellFloat(SheetName, amountCell, tx.Amount.InexactFloat64(), -1, 64); err != nil {
		return fmt.Errorf("write amount at %s: %w", amountCell, err)
	}
	return nil
}

// formatAmounts applies the amount format to C2..C{n+1}, leaving the header
// and the rest of the column untouched.
func formatAmounts(f *excelize.File, n int) error {
	style, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(3, n+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "C2", last, style); err != nil {
		return fmt.Errorf("apply amount style: %w", err)
	}
	return nil
}

// FormatAmount renders d the way the amount column displays it: thousands
// separated with two fraction digits, e.g. 1,000.50.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var sb strings.Builder
	if rounded.IsNegative() {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('.')
	sb.WriteString(frac)
	return sb.String()
}
