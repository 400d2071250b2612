package main

import (
	"fmt"
	"io"

	"campus-match/internal/app"
	"campus-match/internal/config"
	"campus-match/internal/usecase"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List scoring schemes and their fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := app.LoadSchemes(config.MatchConfig{SchemesFile: schemesFile}, log)
		if err != nil {
			return err
		}
		uc := usecase.NewMatchingUsecase(reg, nil, log, config.MatchConfig{})
		return writeSchemes(cmd.OutOrStdout(), uc.Schemes())
	},
}

func init() {
	rootCmd.AddCommand(schemesCmd)
}

func writeSchemes(w io.Writer, schemes []usecase.SchemeInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header("Scheme", "Version", "Field", "Rule", "Weight", "Flag Field")
	for _, s := range schemes {
		for _, f := range s.Fields {
			if err := table.Append([]string{
				s.Name,
				fmt.Sprintf("%d", s.Version),
				f.Name,
				string(f.Rule),
				fmt.Sprintf("%g", f.Weight),
				f.FlagField,
			}); err != nil {
				return err
			}
		}
	}
	return table.Render()
}
