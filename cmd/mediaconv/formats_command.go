package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediaconv/internal/registry"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported conversions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.NewFromEntries(registry.DefaultEntries())
			titler := cases.Title(language.English)

			rows := make([][]string, 0, len(reg.Entries()))
			for _, entry := range reg.Entries() {
				rows = append(rows, []string{
					entry.Pair.Input,
					entry.Pair.Output,
					titler.String(entry.Family),
					entry.Description,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Input", "Output", "Family", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
