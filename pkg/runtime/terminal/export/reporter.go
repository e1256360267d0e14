package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/de-tools/statement-converter/pkg/services/spreadsheet"
	"github.com/shopspring/decimal"
)

type TableConfig struct {
	DateWidth        int
	DescriptionWidth int
	AmountWidth      int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:        10,
		DescriptionWidth: 48,
		AmountWidth:      16,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(date, description, amount string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*s |",
				c.config.DateWidth, date,
				c.config.DescriptionWidth, truncate(description, c.config.DescriptionWidth),
				c.config.AmountWidth, amount)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2))
		},
		"amount": func(d decimal.Decimal) string {
			return spreadsheet.FormatAmount(d)
		},
		"header": func(i int) string {
			return spreadsheet.Header[i]
		},
	}

	tmpl := `
{{.Title}}

Source:  {{.Source}}
Output:  {{.Output}}
Backend: {{.Backend}}
Transactions: {{len .Transactions}}
Total Amount: {{amount .TotalAmount}}

{{separator}}
{{formatRow (header 0) (header 1) (header 2)}}
{{separator}}
{{range .Transactions}}{{formatRow .Date .Description (amount .Amount)}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
