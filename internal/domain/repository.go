package domain

import "context"

// MovieStore defines the persistence contract. InitSchema is destructive:
// it drops and recreates both tables, so a load is always either complete
// or absent, never partial. Directors must be inserted before movies.
type MovieStore interface {
	InitSchema(ctx context.Context) error
	InsertDirectors(ctx context.Context, directors []DirectorRef) (map[string]int64, error)
	InsertMovies(ctx context.Context, records []MovieRecord, urlToID map[string]int64) error

	TopK(ctx context.Context, k int) ([]MovieRow, error)
	GetMovie(ctx context.Context, id int64) (*MovieRow, error)
	ReleaseDecadeHistogram(ctx context.Context, k int) ([]DecadeBucket, error)
	PopularDirectors(ctx context.Context, k int) ([]DirectorPopularity, error)
	PopularDirectorsByLink(ctx context.Context, k int) ([]DirectorPopularity, error)
}

// MovieRow is a Movies row joined with its director. Rank is a string
// because the column mixes integers with the "N/A" sentinel.
type MovieRow struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Rank           string  `json:"rank"`
	Category       string  `json:"category"`
	Length         int     `json:"length"`
	Genre          string  `json:"genre"`
	ReleaseDate    string  `json:"releaseDate"`
	ReleaseCountry string  `json:"releaseCountry"`
	Rating         float64 `json:"rating"`
	Director       string  `json:"director"`
	DirectorLink   string  `json:"directorLink"`
	Image          string  `json:"image,omitempty"`
}

// DecadeBucket is one bar of the release-date histogram.
type DecadeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DirectorPopularity is one row of the grouped popularity ranking.
type DirectorPopularity struct {
	FullName string `json:"fullName"`
	Count    int    `json:"count"`
	Link     string `json:"link"`
}

// BatchRepository stores crawled record batches as files.
type BatchRepository interface {
	StoreJSON(ctx context.Context, path string, records []MovieRecord) error
	StoreYAML(ctx context.Context, path string, records []MovieRecord) error
	GetJSON(ctx context.Context, path string) ([]MovieRecord, error)
}
