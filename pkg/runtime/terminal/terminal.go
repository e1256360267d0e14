package terminal

import (
	"io"
	"os"

	"github.com/de-tools/statement-converter/pkg/runtime/terminal/commands"
	"github.com/de-tools/statement-converter/pkg/runtime/terminal/export"
	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry extract.Registry
	fs       afero.Fs
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry extract.Registry
	Fs       afero.Fs
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Registry == nil {
		opts.Registry = extract.NewDefaultRegistry()
	}

	cli := &CLI{
		registry: opts.Registry,
		fs:       opts.Fs,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "convert-statement",
		Short:         "Convert bank statement PDFs into spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(commands.NewConvertCmd(cli.registry, cli.fs, cli.reporter))
	cmd.AddCommand(commands.NewBackendsCmd(cli.registry))

	return cmd
}
