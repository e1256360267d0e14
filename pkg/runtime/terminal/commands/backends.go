package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/spf13/cobra"
)

func NewBackendsCmd(registry extract.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the available extractor backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backends := registry.ListBackends()
			if len(backends) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No extractor backends registered")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Available backends:\n%s\n", strings.Join(backends, "\n"))
			return nil
		},
	}
}
