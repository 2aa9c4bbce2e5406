package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cinescrape/cinedb/internal/cache"
	"github.com/cinescrape/cinedb/internal/database"
	"github.com/cinescrape/cinedb/internal/dedupe"
	"github.com/cinescrape/cinedb/internal/domain"
	"github.com/cinescrape/cinedb/internal/fetch"
	"github.com/cinescrape/cinedb/internal/repository"
	"github.com/cinescrape/cinedb/internal/report"
	"github.com/cinescrape/cinedb/internal/scrape"
	"github.com/cinescrape/cinedb/internal/web"
)

// App wires the crawl pipeline and the reporting surfaces together.
type App struct {
	log           zerolog.Logger
	config        *domain.Config
	dedupeService dedupe.Service
	batchRepo     domain.BatchRepository
}

func NewApp(log zerolog.Logger, cfg *domain.Config) *App {
	return &App{
		log:           log.With().Str("module", "app").Logger(),
		config:        cfg,
		dedupeService: dedupe.NewService(log),
		batchRepo:     repository.NewFileRepository(log),
	}
}

// scraper opens the page cache and builds a scrape service on top of it.
// The returned store must be flushed by the caller before exit.
func (a *App) scraper() (scrape.Service, *cache.Store) {
	store := cache.Open(a.config.CacheFile, a.log)
	fetcher := fetch.NewFetcher(a.log, a.config)
	return scrape.NewService(a.log, a.config, store, fetcher), store
}

// crawl discovers the ranked list and extracts the first n records,
// honoring the skip-failures setting.
func (a *App) crawl(svc scrape.Service, n int) ([]domain.MovieRecord, error) {
	entries, err := svc.Discover(a.config.ListingPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover ranked list")
	}
	if len(entries) == 0 {
		return nil, errors.New("ranked list is empty, nothing to crawl")
	}

	batch := svc.ExtractBatch(entries, n)
	if err := batch.FirstErr(); err != nil {
		if !a.config.SkipFailures {
			return nil, err
		}
		for _, failure := range batch.Failures() {
			a.log.Warn().Err(failure.Err).Str("title", failure.Entry.Title).Msg("skipping failed record")
		}
	}

	records := batch.Records()
	a.log.Info().Int("requested", n).Int("extracted", len(records)).Msg("crawl complete")
	return records, nil
}

// Crawl scrapes the top n movies and loads them into a fresh database.
// The load is destructive: both tables are dropped and recreated, so the
// database always holds exactly one crawl.
func (a *App) Crawl(ctx context.Context, n int) error {
	svc, store := a.scraper()
	defer func() {
		if err := store.Flush(); err != nil {
			a.log.Error().Err(err).Msg("failed to flush page cache")
		}
	}()

	records, err := a.crawl(svc, n)
	if err != nil {
		return err
	}

	directors := a.dedupeService.Dedupe(records)

	db, err := database.NewDB(a.config.DBDir, a.log)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	repo := database.NewMovieRepo(a.log, db)
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}

	urlToID, err := repo.InsertDirectors(ctx, directors)
	if err != nil {
		return err
	}
	if err := repo.InsertMovies(ctx, records, urlToID); err != nil {
		return err
	}

	a.log.Info().
		Int("movies", len(records)).
		Int("directors", len(directors)).
		Int("cached_pages", store.Len()).
		Msg("database load complete")
	return nil
}

// Export scrapes the top n movies and writes them to dir as JSON and
// YAML batch files, without touching the database.
func (a *App) Export(ctx context.Context, n int, dir string) error {
	svc, store := a.scraper()
	defer func() {
		if err := store.Flush(); err != nil {
			a.log.Error().Err(err).Msg("failed to flush page cache")
		}
	}()

	records, err := a.crawl(svc, n)
	if err != nil {
		return err
	}

	if err := a.batchRepo.StoreJSON(ctx, filepath.Join(dir, "movies.json"), records); err != nil {
		return err
	}
	if err := a.batchRepo.StoreYAML(ctx, filepath.Join(dir, "movies.yaml"), records); err != nil {
		return err
	}

	a.log.Info().Int("movies", len(records)).Str("dir", dir).Msg("export complete")
	return nil
}

// Report prints the top-k table, the release-decade histogram, and the
// director popularity ranking for the current database contents.
func (a *App) Report(ctx context.Context, k int) error {
	db, err := database.NewDB(a.config.DBDir, a.log)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	repo := database.NewMovieRepo(a.log, db)

	rows, err := repo.TopK(ctx, k)
	if err != nil {
		return err
	}
	report.RenderTopK(os.Stdout, rows)

	buckets, err := repo.ReleaseDecadeHistogram(ctx, k)
	if err != nil {
		return err
	}
	report.RenderHistogram(os.Stdout, buckets)

	directors, err := repo.PopularDirectors(ctx, k)
	if err != nil {
		return err
	}
	report.RenderDirectors(os.Stdout, directors)

	return nil
}

// KnownFor prints a director's poster and notable works.
func (a *App) KnownFor(ctx context.Context, directorURL string) error {
	svc, store := a.scraper()
	defer func() {
		if err := store.Flush(); err != nil {
			a.log.Error().Err(err).Msg("failed to flush page cache")
		}
	}()

	poster, entries, err := svc.KnownFor(directorURL)
	if err != nil {
		return err
	}

	report.RenderKnownFor(os.Stdout, poster, entries)
	return nil
}

// Serve runs the reporting web front end over the current database.
func (a *App) Serve(ctx context.Context) error {
	db, err := database.NewDB(a.config.DBDir, a.log)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	repo := database.NewMovieRepo(a.log, db)
	server := web.NewServer(a.log, repo, a.config.TopN)
	return server.Run(a.config.ListenAddr)
}
