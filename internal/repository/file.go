package repository

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/cinescrape/cinedb/internal/domain"
)

// FileRepository stores crawled record batches as JSON or YAML files.
type FileRepository struct {
	log zerolog.Logger
}

func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.BatchRepository = (*FileRepository)(nil)

// GetJSON reads a previously exported record batch.
func (r *FileRepository) GetJSON(ctx context.Context, path string) ([]domain.MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", path)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}

	records := []domain.MovieRecord{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal json from %s", path)
	}

	return records, nil
}

// StoreJSON writes the record batch as indented JSON.
func (r *FileRepository) StoreJSON(ctx context.Context, path string, records []domain.MovieRecord) error {
	body, err := json.MarshalIndent(records, "", "   ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal records")
	}
	return r.write(path, body)
}

// StoreYAML writes the record batch as YAML.
func (r *FileRepository) StoreYAML(ctx context.Context, path string, records []domain.MovieRecord) error {
	body, err := yaml.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "failed to marshal records")
	}
	return r.write(path, body)
}

func (r *FileRepository) write(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create file %s", path)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return errors.Wrapf(err, "failed to write to file %s", path)
	}

	r.log.Debug().Str("path", path).Msg("stored record batch")
	return nil
}
