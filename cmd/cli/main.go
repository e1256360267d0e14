package main

import (
	"fmt"
	"os"

	"github.com/de-tools/statement-converter/pkg/runtime/terminal"
	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/spf13/afero"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: extract.NewDefaultRegistry(),
		Fs:       afero.NewOsFs(),
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
