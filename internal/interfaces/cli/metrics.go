package cli

import (
	"github.com/spf13/cobra"
)

// NewMetricsCmd creates the metrics command: score a content sample without
// live query testing.
func NewMetricsCmd() *cobra.Command {
	var contentFile string

	cmd := &cobra.Command{
		Use:   "metrics <brand-name>",
		Short: "Compute the optimization metric set for a content sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			contentSample, err := readContentFile(contentFile)
			if err != nil {
				return err
			}

			m, err := cliCtx.Engine.ComputeMetrics(cmd.Context(), args[0], contentSample)
			if err != nil {
				return err
			}
			return printJSON(cmd, m)
		},
	}

	cmd.Flags().StringVar(&contentFile, "content-file", "", "path to a brand content sample; omitted content is synthesized")
	return cmd
}
