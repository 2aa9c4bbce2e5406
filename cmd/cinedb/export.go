package main

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Scrape the ranked movie list into JSON and YAML batch files",
	Long: `Export runs the same crawl as the crawl command but writes the
extracted records to movies.json and movies.yaml in dir (default ".")
instead of loading the database. The page cache is shared with crawl,
so an export after a crawl downloads nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cfg, err := buildApp()
		if err != nil {
			return err
		}

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		n, err := cmd.Flags().GetInt("top")
		if err != nil {
			return err
		}
		if n == 0 {
			n = cfg.TopN
		}
		if n == 0 {
			n = 250
		}

		return application.Export(cmd.Context(), n, dir)
	},
}

func init() {
	exportCmd.Flags().Int("top", 0, "number of movies to export (1-250, 0 exports all 250)")
	rootCmd.AddCommand(exportCmd)
}
