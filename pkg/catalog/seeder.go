// Package catalog handles first-boot seeding of the content table from a
// YAML seed file. Ongoing catalog ingestion is owned by an external
// collaborator; the seeder only fills an empty table so a fresh deployment
// can serve pairs immediately.
package catalog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// SeedItem is one title in the seed file.
type SeedItem struct {
	ExternalID string   `yaml:"external_id"`
	Title      string   `yaml:"title"`
	Year       int      `yaml:"year"`
	Type       string   `yaml:"type"`
	Genres     []string `yaml:"genres"`
	Rating     *float64 `yaml:"rating"`
	Poster     *string  `yaml:"poster"`
	Plot       *string  `yaml:"plot"`
}

type seedFile struct {
	Content []SeedItem `yaml:"content"`
}

// Seeder loads seed titles into an empty catalog.
type Seeder struct {
	catalog repositories.ContentRepository
	logger  *zap.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(catalog repositories.ContentRepository, logger *zap.Logger) *Seeder {
	return &Seeder{catalog: catalog, logger: logger}
}

// SeedIfEmpty loads the seed file and inserts its titles when the content
// table has no rows. A non-empty table means a real ingestion pipeline owns
// the catalog and the seeder stays out of the way.
func (s *Seeder) SeedIfEmpty(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	count, err := s.catalog.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug("catalog already populated, skipping seed", zap.Int("count", count))
		return nil
	}

	items, err := LoadSeedFile(path)
	if err != nil {
		return err
	}

	inserted := 0
	for i := range items {
		item, err := items[i].toContentItem()
		if err != nil {
			return err
		}
		if err := s.catalog.Insert(ctx, item); err != nil {
			return err
		}
		inserted++
	}

	s.logger.Info("catalog seeded", zap.String("path", path), zap.Int("items", inserted))
	return nil
}

// LoadSeedFile parses and validates a YAML seed file.
func LoadSeedFile(path string) ([]SeedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i := range file.Content {
		if err := file.Content[i].validate(); err != nil {
			return nil, fmt.Errorf("seed item %d: %w", i, err)
		}
	}

	return file.Content, nil
}

func (i *SeedItem) validate() error {
	if i.ExternalID == "" {
		return fmt.Errorf("%w: external_id is required", apperrors.ErrValidation)
	}
	if i.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if i.Year < 1880 {
		return fmt.Errorf("%w: year %d is not plausible", apperrors.ErrValidation, i.Year)
	}
	if !models.IsValidContentType(i.Type) {
		return fmt.Errorf("%w: unknown content type %q", apperrors.ErrValidation, i.Type)
	}
	if i.Rating != nil && (*i.Rating < 0 || *i.Rating > 10) {
		return fmt.Errorf("%w: rating must be in [0, 10]", apperrors.ErrValidation)
	}
	return nil
}

func (i *SeedItem) toContentItem() (*models.ContentItem, error) {
	if err := i.validate(); err != nil {
		return nil, err
	}
	return &models.ContentItem{
		ExternalID: i.ExternalID,
		Title:      i.Title,
		Year:       i.Year,
		Type:       models.ContentType(i.Type),
		Genres:     i.Genres,
		Rating:     i.Rating,
		Poster:     i.Poster,
		Plot:       i.Plot,
	}, nil
}
