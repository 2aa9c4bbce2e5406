package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cinescrape/cinedb/internal/domain"
)

func sampleBatch() []domain.MovieRecord {
	return []domain.MovieRecord{
		{
			Title:          "The Shawshank Redemption",
			Rank:           domain.RankedAs(1),
			Categories:     []string{"Crime", "Drama"},
			Runtime:        142,
			Genre:          domain.KnownGenre("R"),
			ReleaseDate:    "1994-10-14",
			ReleaseCountry: "USA",
			Rating:         9.3,
			Director:       domain.DirectorRef{Name: "Frank Darabont", Link: "https://films.test/name/nm0001104/"},
			Stars: []domain.Star{
				{Name: "Tim Robbins", Link: "https://films.test/name/nm0000209/"},
			},
		},
	}
}

func TestFileRepository_JSONRoundTrip(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "movies.json")
	ctx := context.Background()

	require.NoError(t, repo.StoreJSON(ctx, path, sampleBatch()))

	got, err := repo.GetJSON(ctx, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sampleBatch()[0], got[0])
}

func TestFileRepository_StoreYAML(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "movies.yaml")

	require.NoError(t, repo.StoreYAML(context.Background(), path, sampleBatch()))

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(body, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "The Shawshank Redemption", decoded[0]["title"])
}

func TestFileRepository_GetJSONMissingFile(t *testing.T) {
	repo := NewFileRepository(zerolog.Nop())

	_, err := repo.GetJSON(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
