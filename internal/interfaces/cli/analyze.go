package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/BrandLens-AI/internal/engine"
)

// NewAnalyzeCmd creates the analyze command: the full pipeline from brand
// content to scored report.
func NewAnalyzeCmd() *cobra.Command {
	var (
		categories  string
		websiteURL  string
		contentFile string
		competitors string
	)

	cmd := &cobra.Command{
		Use:   "analyze <brand-name>",
		Short: "Run the full AI visibility analysis for a brand",
		Long: "Generate semantic queries for the brand, test them against the configured\n" +
			"AI platforms (or simulate when no API keys are usable), compute the full\n" +
			"metric set, and print the report as JSON.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			contentSample, err := readContentFile(contentFile)
			if err != nil {
				return err
			}

			rep, err := cliCtx.Engine.Analyze(cmd.Context(), engine.AnalyzeRequest{
				BrandName:     args[0],
				Categories:    splitCSV(categories),
				WebsiteURL:    websiteURL,
				ContentSample: contentSample,
				Competitors:   splitCSV(competitors),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, rep)
		},
	}

	cmd.Flags().StringVar(&categories, "categories", "", "comma-separated product categories (required)")
	cmd.Flags().StringVar(&websiteURL, "website", "", "brand website URL")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "path to a brand content sample; omitted content is synthesized")
	cmd.Flags().StringVar(&competitors, "competitors", "", "comma-separated competitor brand names")

	return cmd
}

// readContentFile returns the file's contents, or "" when no path was given.
func readContentFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading content file: %w", err)
	}
	return string(data), nil
}
