package cli

import (
	"github.com/spf13/cobra"
)

// NewQueriesCmd creates the queries command: generate and classify the query
// set without testing it against any platform.
func NewQueriesCmd() *cobra.Command {
	var categories string

	cmd := &cobra.Command{
		Use:   "queries <brand-name>",
		Short: "Generate the semantic query set and its intent distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			insights, err := cliCtx.Engine.AnalyzeQueries(cmd.Context(), args[0], splitCSV(categories))
			if err != nil {
				return err
			}
			return printJSON(cmd, insights)
		},
	}

	cmd.Flags().StringVar(&categories, "categories", "", "comma-separated product categories")
	return cmd
}
