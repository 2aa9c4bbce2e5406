package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cinescrape/cinedb/internal/domain"
)

// MovieRepo implements domain.MovieStore on the sqlite handle.
type MovieRepo struct {
	log zerolog.Logger
	db  *DB
}

func NewMovieRepo(log zerolog.Logger, db *DB) domain.MovieStore {
	return &MovieRepo{
		log: log.With().Str("repo", "movie").Logger(),
		db:  db,
	}
}

// InitSchema drops and recreates both tables. Destructive: callers must
// not run it on a store they intend to preserve.
func (r *MovieRepo) InitSchema(ctx context.Context) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	tx, err := r.db.handler.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, movieSchema); err != nil {
		return errors.Wrap(err, "failed to initialize schema")
	}

	r.log.Info().Msg("Recreated movie database schema")
	return tx.Commit()
}

// splitName splits a display name on whitespace into first and last
// tokens. Not locale-aware; a single-token name yields identical
// first and last names.
func splitName(name string) (string, string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], tokens[len(tokens)-1]
}

// InsertDirectors inserts directors in input order and returns the
// mapping from page URL to assigned id. Ids are 1-based sequential
// integers because the schema was just recreated.
func (r *MovieRepo) InsertDirectors(ctx context.Context, directors []domain.DirectorRef) (map[string]int64, error) {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	tx, err := r.db.handler.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	urlToID := make(map[string]int64, len(directors))
	for _, d := range directors {
		first, last := splitName(d.Name)

		queryBuilder := r.db.squirrel.
			Insert("Directors").
			Columns("FirstName", "LastName", "Link").
			Values(first, last, d.Link)

		query, args, err := queryBuilder.ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "error building query")
		}

		r.log.Trace().Str("query", query).Interface("args", args).Msg("InsertDirectors")

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, errors.Wrapf(err, "error inserting director %q", d.Name)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, errors.Wrap(err, "error reading assigned director id")
		}
		urlToID[d.Link] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit directors")
	}

	r.log.Info().Int("count", len(directors)).Msg("Inserted directors")
	return urlToID, nil
}

// InsertMovies inserts the full record batch in one transaction. Every
// record's director must already be present in urlToID; an unresolved
// director is a logic error in batch construction and aborts the insert.
func (r *MovieRepo) InsertMovies(ctx context.Context, records []domain.MovieRecord, urlToID map[string]int64) error {
	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	tx, err := r.db.handler.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, record := range records {
		directorID, ok := urlToID[record.Director.Link]
		if !ok {
			return errors.Errorf("movie %q references unresolved director %s", record.Title, record.Director.Link)
		}

		queryBuilder := r.db.squirrel.
			Insert("Movies").
			Columns("MovieTitle", "Rank", "Category", "Length", "Genre", "ReleaseDate", "ReleaseCountry", "Rating", "DirectorId", "Image").
			Values(
				record.Title,
				record.Rank.StorageValue(),
				strings.Join(record.Categories, " "),
				record.Runtime,
				record.Genre.String(),
				record.ReleaseDate,
				record.ReleaseCountry,
				record.Rating,
				directorID,
				record.Image,
			)

		query, args, err := queryBuilder.ToSql()
		if err != nil {
			return errors.Wrap(err, "error building query")
		}

		r.log.Trace().Str("query", query).Interface("args", args).Msg("InsertMovies")

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "error inserting movie %q", record.Title)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit movies")
	}

	r.log.Info().Int("count", len(records)).Msg("Inserted movies")
	return nil
}

var movieColumns = []string{
	"Movies.Id",
	"MovieTitle",
	"Rank",
	"Category",
	"Length",
	"Genre",
	"ReleaseDate",
	"ReleaseCountry",
	"Rating",
	"FirstName || ' ' || LastName",
	"Link",
	"IFNULL(Image, '')",
}

func scanMovieRow(scanner interface{ Scan(...any) error }) (*domain.MovieRow, error) {
	row := &domain.MovieRow{}
	err := scanner.Scan(
		&row.ID,
		&row.Title,
		&row.Rank,
		&row.Category,
		&row.Length,
		&row.Genre,
		&row.ReleaseDate,
		&row.ReleaseCountry,
		&row.Rating,
		&row.Director,
		&row.DirectorLink,
		&row.Image,
	)
	if err != nil {
		return nil, errors.Wrap(err, "error scanning row")
	}
	return row, nil
}

// TopK returns up to k movies joined with their directors, ordered by
// rank ascending. Asking for more rows than are stored returns them all.
func (r *MovieRepo) TopK(ctx context.Context, k int) ([]domain.MovieRow, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	queryBuilder := r.db.squirrel.
		Select(movieColumns...).
		From("Movies").
		Join("Directors ON Movies.DirectorId = Directors.Id").
		OrderBy("Rank").
		Limit(uint64(k))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("TopK")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var result []domain.MovieRow
	for rows.Next() {
		row, err := scanMovieRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return result, nil
}

// GetMovie returns a single joined row, or nil when the id is unknown.
func (r *MovieRepo) GetMovie(ctx context.Context, id int64) (*domain.MovieRow, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	queryBuilder := r.db.squirrel.
		Select(movieColumns...).
		From("Movies").
		Join("Directors ON Movies.DirectorId = Directors.Id").
		Where(sq.Eq{"Movies.Id": id})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("GetMovie")

	row, err := scanMovieRow(r.db.handler.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(errors.Cause(err), sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// ReleaseDecadeHistogram counts the distinct release dates of the top-k
// ranked movies per fixed decade bucket from the 1960s through the 2010s.
// The trailing "else" bucket is k minus the sum of the decade counts, so
// it absorbs dates outside the range, malformed or partial dates that the
// lexical BETWEEN comparison excludes, and movies sharing a bucketed date.
func (r *MovieRepo) ReleaseDecadeHistogram(ctx context.Context, k int) ([]domain.DecadeBucket, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	buckets := make([]domain.DecadeBucket, 0, 7)
	left := k

	for year := 1960; year < 2020; year += 10 {
		sub := r.db.squirrel.
			Select("*").
			From("Movies").
			OrderBy("Rank").
			Limit(uint64(k))

		queryBuilder := r.db.squirrel.
			Select("COUNT(DISTINCT ReleaseDate)").
			FromSelect(sub, "top").
			Where(sq.Expr("ReleaseDate BETWEEN ? AND ?",
				fmt.Sprintf("%d-01-01", year),
				fmt.Sprintf("%d-12-31", year+9),
			))

		query, args, err := queryBuilder.ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "error building query")
		}

		r.log.Trace().Str("query", query).Interface("args", args).Msg("ReleaseDecadeHistogram")

		var count int
		if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return nil, errors.Wrap(err, "error executing query")
		}

		buckets = append(buckets, domain.DecadeBucket{
			Label: fmt.Sprintf("%ds", year),
			Count: count,
		})
		left -= count
	}

	buckets = append(buckets, domain.DecadeBucket{Label: "else", Count: left})
	return buckets, nil
}

// PopularDirectors groups the top-k ranked movies by the director's
// concatenated full name, ordered by movie count descending. Grouping is
// by name string: two distinct directors sharing a full name are merged,
// a reproducible quirk of the source kept on purpose. See
// PopularDirectorsByLink for the identity-grounded variant.
func (r *MovieRepo) PopularDirectors(ctx context.Context, k int) ([]domain.DirectorPopularity, error) {
	return r.popularDirectors(ctx, k, "FullName")
}

// PopularDirectorsByLink groups by the director's page URL, the stable
// identity, so same-named directors stay separate.
func (r *MovieRepo) PopularDirectorsByLink(ctx context.Context, k int) ([]domain.DirectorPopularity, error) {
	return r.popularDirectors(ctx, k, "Link")
}

func (r *MovieRepo) popularDirectors(ctx context.Context, k int, groupBy string) ([]domain.DirectorPopularity, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	sub := r.db.squirrel.
		Select("FirstName || ' ' || LastName AS FullName", "Link").
		From("Movies").
		Join("Directors ON Movies.DirectorId = Directors.Id").
		OrderBy("Rank").
		Limit(uint64(k))

	queryBuilder := r.db.squirrel.
		Select("FullName", "COUNT(*)", "Link").
		FromSelect(sub, "top").
		GroupBy(groupBy).
		OrderBy("COUNT(*) DESC")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("popularDirectors")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var result []domain.DirectorPopularity
	for rows.Next() {
		var row domain.DirectorPopularity
		if err := rows.Scan(&row.FullName, &row.Count, &row.Link); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return result, nil
}
