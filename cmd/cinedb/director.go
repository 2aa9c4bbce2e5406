package main

import (
	"github.com/spf13/cobra"
)

var directorCmd = &cobra.Command{
	Use:   "director <url>",
	Short: "Print the works a director is known for",
	Long: `Director fetches a director's page and prints their poster URL and
the titles they are known for. The page goes through the same cache as
the movie crawl.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := buildApp()
		if err != nil {
			return err
		}

		return application.KnownFor(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(directorCmd)
}
