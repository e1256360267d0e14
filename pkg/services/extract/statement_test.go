package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfStringEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

// buildPDF lays out one Helvetica text row per entry, top to bottom. Each row
// is a list of fragments drawn left to right at fixed column offsets, so the
// reader has to stitch them back together.
func buildPDF(pages [][][]string) []byte {
	kids := make([]string, len(pages))
	for k := range pages {
		kids[k] = fmt.Sprintf("%d 0 R", 4+2*k)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for k, rows := range pages {
		var content strings.Builder
		for i, row := range rows {
			y := 760 - 14*i
			for j, fragment := range row {
				fmt.Fprintf(&content, "BT /F1 10 Tf 1 0 0 1 %d %d Tm (%s) Tj ET\n", 40+110*j, y, pdfStringEscaper.Replace(fragment))
			}
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*k),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestStatement_Extract_MultiPage(t *testing.T) {
	doc := buildPDF([][][]string{
		{
			{"BANCO EXEMPLO S.A."},
			{"DETALHE DOS MOVIMENTOS"},
			{"Data", "Descricao", "ID da operacao", "Valor", "Saldo"},
			{"05-03-24", "Pix recebido", "12345678901", "R$1.234,56", "R$2.000,00"},
			{"06-03-24", "Pagamento boleto", "98765432109", "R$ -250,10", "R$ 1.749,90"},
		},
		{
			{"Continuacao"},
			{"07-03-24", "Compra mercado", "10000000001", "R$50,00", "R$1.699,90"},
			{"Pagina 2 de 2"},
		},
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "uploads/extrato.pdf", doc, 0o644))

	ex, err := StatementFactory(fs)
	require.NoError(t, err)

	txs, err := ex.Extract(context.Background(), "uploads/extrato.pdf")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	expected := []struct {
		date        string
		description string
		amount      string
	}{
		{date: "05-03-24", description: "Pix recebido", amount: "1234.56"},
		{date: "06-03-24", description: "Pagamento boleto", amount: "-250.10"},
		{date: "07-03-24", description: "Compra mercado", amount: "50"},
	}
	for i, want := range expected {
		assert.Equal(t, want.date, txs[i].Date)
		assert.Equal(t, want.description, txs[i].Description)
		assert.True(t, decimal.RequireFromString(want.amount).Equal(txs[i].Amount), txs[i].Amount.String())
	}
}

func TestStatement_Extract_NoMovements(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := buildPDF([][][]string{{{"BANCO EXEMPLO S.A."}, {"Sem movimentos no periodo"}}})
	require.NoError(t, afero.WriteFile(fs, "uploads/vazio.pdf", doc, 0o644))

	ex, err := StatementFactory(fs)
	require.NoError(t, err)

	txs, err := ex.Extract(context.Background(), "uploads/vazio.pdf")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name     string
		row      pdf.TextHorizontal
		expected string
	}{
		{
			name: "touching fragments stay glued",
			row: pdf.TextHorizontal{
				{S: "R$", X: 10, W: 10, FontSize: 10},
				{S: "1,00", X: 20, W: 20, FontSize: 10},
			},
			expected: "R$1,00",
		},
		{
			name: "wide gap becomes a space",
			row: pdf.TextHorizontal{
				{S: "Pix", X: 10, W: 15, FontSize: 10},
				{S: "recebido", X: 40, W: 40, FontSize: 10},
			},
			expected: "Pix recebido",
		},
		{
			name: "existing spaces are not doubled",
			row: pdf.TextHorizontal{
				{S: "Pix ", X: 10, W: 20, FontSize: 10},
				{S: "recebido", X: 40, W: 40, FontSize: 10},
				{S: " Maria", X: 100, W: 30, FontSize: 10},
			},
			expected: "Pix recebido Maria",
		},
		{
			name:     "empty row",
			row:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinRow(tt.row))
		})
	}
}
