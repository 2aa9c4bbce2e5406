package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cinescrape/cinedb/internal/app"
	"github.com/cinescrape/cinedb/internal/config"
	"github.com/cinescrape/cinedb/internal/domain"
	"github.com/cinescrape/cinedb/internal/logger"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Scrape the ranked movie list and load the database",
	Long: `Crawl fetches the top-rated chart, extracts one record per movie,
dedupes directors by their page URL, and loads everything into the
sqlite database. The load drops and recreates both tables, so the
database always reflects exactly one crawl.

Every fetched page lands in the JSON page cache first; a re-run after a
failure only downloads the pages it has not seen yet.

With --top 0 (the default) the number of movies is asked interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cfg, err := buildApp()
		if err != nil {
			return err
		}

		n := cfg.TopN
		if n == 0 {
			n, err = promptTopN(os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
		}

		return application.Crawl(cmd.Context(), n)
	},
}

// buildApp loads the configuration and assembles the application.
func buildApp() (*app.App, *domain.Config, error) {
	log := logger.NewLoggerFromName(viper.GetString("log_level"))

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	return app.NewApp(log, cfg), cfg, nil
}

// promptTopN asks until it gets an integer between 1 and 250.
func promptTopN(in io.Reader, out io.Writer) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "How many top-rated movies do you want? (1-250): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}

		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > 250 {
			fmt.Fprintln(out, "Please enter a number between 1 and 250.")
			continue
		}
		return n, nil
	}
}

func init() {
	crawlCmd.Flags().Int("top", 0, "number of movies to crawl (1-250, 0 asks interactively)")
	crawlCmd.Flags().Bool("skip-failures", false, "load the movies that extracted cleanly instead of aborting on the first failure")
	crawlCmd.Flags().Duration("scrape-delay", 0, "delay between page fetches")
	viper.BindPFlag("top_n", crawlCmd.Flags().Lookup("top"))
	viper.BindPFlag("scrape_skip_failures", crawlCmd.Flags().Lookup("skip-failures"))
	viper.BindPFlag("scrape_delay", crawlCmd.Flags().Lookup("scrape-delay"))
	rootCmd.AddCommand(crawlCmd)
}
