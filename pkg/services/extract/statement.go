package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

const (
	sectionMarker  = "DETALHE DOS MOVIMENTOS"
	footerMarker   = "Data de geração:"
	currencySymbol = "R$"
)

var (
	dateRe        = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}`)
	operationIDRe = regexp.MustCompile(`^\d{11}`)
)

// Statement reads the movements table of a bank statement PDF.
type Statement struct {
	fs afero.Fs
}

func StatementFactory(fs afero.Fs) (Extractor, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is nil")
	}
	return &Statement{fs: fs}, nil
}

func (s *Statement) Extract(ctx context.Context, path string) ([]domain.Transaction, error) {
	pages, err := s.readPages(ctx, path)
	if err != nil {
		return nil, err
	}

	var txs []domain.Transaction
	for _, lines := range pages {
		txs = append(txs, ParseStatementLines(ctx, lines)...)
	}
	return txs, nil
}

// readPages returns the text lines of every page, top to bottom.
func (s *Statement) readPages(ctx context.Context, path string) (pages [][]string, err error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrExtraction, path, err)
	}

	// the pdf package panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: malformed document: %v", domain.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", domain.ErrExtraction, i, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row.Content))
		}
		pages = append(pages, lines)
	}

	return pages, nil
}

// joinRow glues text fragments back together, adding a space wherever the
// horizontal gap between two fragments is wider than a fraction of the font.
func joinRow(texts pdf.TextHorizontal) string {
	var sb strings.Builder
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.2 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
	}
	return sb.String()
}

// ParseStatementLines picks transactions out of one page of statement text.
// Lines before the movements header, table headers and everything after the
// generation footer are ignored.
func ParseStatementLines(ctx context.Context, lines []string) []domain.Transaction {
	logger := zerolog.Ctx(ctx)

	start := 0
	for i, line := range lines {
		if strings.Contains(line, sectionMarker) {
			start = i + 2
			break
		}
	}
	if start > len(lines) {
		return nil
	}

	var txs []domain.Transaction
	for _, line := range lines[start:] {
		if strings.Contains(line, "Data") && strings.Contains(line, "Descrição") {
			continue
		}
		if strings.Contains(line, footerMarker) {
			break
		}

		tx, ok, err := parseStatementLine(line)
		if err != nil {
			logger.Warn().Err(err).Str("line", line).Msg("skipping statement line")
			continue
		}
		if ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

// parseStatementLine reads "<date> <description...> <operation id> R$<value> R$<balance>".
// ok is false for lines that are not movements at all.
func parseStatementLine(line string) (tx domain.Transaction, ok bool, err error) {
	parts := strings.Fields(line)
	if len(parts) < 4 || !dateRe.MatchString(parts[0]) {
		return domain.Transaction{}, false, nil
	}

	for i, part := range parts {
		if !operationIDRe.MatchString(part) {
			continue
		}

		description := strings.Join(parts[1:i], " ")
		amounts := currencyFields(parts[i+1:])
		if description == "" || len(amounts) < 2 {
			return domain.Transaction{}, false, nil
		}

		value, err := parseBRL(amounts[0])
		if err != nil {
			return domain.Transaction{}, false, err
		}
		// first R$ field is the value, last is the balance; the balance is
		// required for a movement line but not kept
		if _, err := parseBRL(amounts[len(amounts)-1]); err != nil {
			return domain.Transaction{}, false, err
		}

		return domain.Transaction{
			Date:        parts[0],
			Description: description,
			Amount:      value,
		}, true, nil
	}

	return domain.Transaction{}, false, nil
}

// currencyFields returns the amounts tagged with R$, accepting both "R$10,00"
// and "R$ 10,00".
func currencyFields(parts []string) []string {
	var amounts []string
	for i := 0; i < len(parts); i++ {
		if !strings.Contains(parts[i], currencySymbol) {
			continue
		}
		amount := strings.TrimSpace(strings.Replace(parts[i], currencySymbol, "", 1))
		if (amount == "" || amount == "-") && i+1 < len(parts) {
			i++
			amount += parts[i]
		}
		amounts = append(amounts, amount)
	}
	return amounts
}

// parseBRL converts "1.234,56" into 1234.56.
func parseBRL(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
