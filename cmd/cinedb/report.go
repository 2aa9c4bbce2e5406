package main

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the movie, decade, and director reports",
	Long: `Report prints three tables from the current database: the top-k
movies ordered by rank, the release-decade histogram, and the director
popularity ranking. Unranked movies sort after every ranked one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := buildApp()
		if err != nil {
			return err
		}

		k, err := cmd.Flags().GetInt("top")
		if err != nil {
			return err
		}

		return application.Report(cmd.Context(), k)
	},
}

func init() {
	reportCmd.Flags().Int("top", 50, "number of movies each report covers")
	rootCmd.AddCommand(reportCmd)
}
