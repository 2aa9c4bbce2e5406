package dedupe

import (
	"github.com/rs/zerolog"

	"github.com/cinescrape/cinedb/internal/domain"
)

type Service interface {
	// Dedupe collapses the per-movie director references into a unique
	// sequence keyed by page URL, preserving first-seen order. Identity
	// is the URL, not the name: names collide across distinct people.
	Dedupe(records []domain.MovieRecord) []domain.DirectorRef
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "dedupe").Logger(),
	}
}

func (s *service) Dedupe(records []domain.MovieRecord) []domain.DirectorRef {
	seen := make(map[string]struct{}, len(records))
	directors := make([]domain.DirectorRef, 0, len(records))

	for _, record := range records {
		if _, ok := seen[record.Director.Link]; ok {
			continue
		}
		seen[record.Director.Link] = struct{}{}
		directors = append(directors, record.Director)
	}

	s.log.Info().Int("movies", len(records)).Int("directors", len(directors)).Msg("director dedup complete")
	return directors
}
