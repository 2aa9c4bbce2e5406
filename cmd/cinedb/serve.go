package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reporting web front end",
	Long: `Serve starts a read-only web interface over the current database:
an HTML movie table, per-movie detail pages, the decade histogram, the
director ranking, and JSON variants of all four under /api.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _, err := buildApp()
		if err != nil {
			return err
		}

		return application.Serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}
