package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/de-tools/statement-converter/pkg/runtime/terminal/export"
	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/de-tools/statement-converter/pkg/services/spreadsheet"
	"github.com/de-tools/statement-converter/pkg/store/workdir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type ConvertCmd struct {
	input    string
	output   string
	backend  string
	timeout  time.Duration
	registry extract.Registry
	fs       afero.Fs
	reporter *export.Reporter
}

func NewConvertCmd(registry extract.Registry, fs afero.Fs, reporter *export.Reporter) *cobra.Command {
	cc := &ConvertCmd{registry: registry, fs: fs, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a statement PDF into an XLSX spreadsheet",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.input, "input", "", "Path to the statement PDF")
	cmd.Flags().StringVar(&cc.output, "output", "", "Path of the spreadsheet (default: input with .xlsx extension)")
	cmd.Flags().StringVar(&cc.backend, "backend", extract.BackendStatement, "Extractor backend to use")
	cmd.Flags().DurationVar(&cc.timeout, "timeout", 60*time.Second, "Maximum time for the conversion")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (cc *ConvertCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cc.timeout)
	defer cancel()

	extractor, err := cc.registry.Create(cc.backend, cc.fs)
	if err != nil {
		return fmt.Errorf("failed to create extractor %q: %w", cc.backend, err)
	}

	output := cc.output
	if output == "" {
		output = filepath.Join(filepath.Dir(cc.input), workdir.OutputFilename(filepath.Base(cc.input)))
	}

	txs, err := extractor.Extract(ctx, cc.input)
	if err != nil {
		return fmt.Errorf("failed to extract transactions from %s: %w", cc.input, err)
	}
	if len(txs) == 0 {
		return fmt.Errorf("%s: %w", cc.input, domain.ErrEmptyResult)
	}

	if err := cc.fs.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	generator, err := spreadsheet.NewGenerator(cc.fs)
	if err != nil {
		return err
	}
	if err := generator.Generate(ctx, txs, output); err != nil {
		return fmt.Errorf("failed to generate %s: %w", output, err)
	}

	return cc.reporter.Handle(domain.NewReport("Statement conversion", cc.input, output, cc.backend, txs))
}
