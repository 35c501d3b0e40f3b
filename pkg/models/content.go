package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes movies from series. Pairs and votes never mix types.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// IsValidContentType reports whether s is one of the known content types.
func IsValidContentType(s string) bool {
	switch ContentType(s) {
	case ContentTypeMovie, ContentTypeSeries:
		return true
	}
	return false
}

// ContentItem is a catalog entry. The engine treats it as immutable; catalog
// ingestion owns all writes. ExternalID is the catalog provider's identifier
// (e.g. an IMDb id) and is resolved to the internal ID at ingestion time, so
// everything downstream of the catalog keys on ID alone.
type ContentItem struct {
	ID         uuid.UUID   `json:"id"`
	ExternalID string      `json:"external_id"`
	Title      string      `json:"title"`
	Year       int         `json:"year"`
	Type       ContentType `json:"content_type"`
	Genres     []string    `json:"genres"`
	Rating     *float64    `json:"rating,omitempty"`
	Poster     *string     `json:"poster,omitempty"`
	Plot       *string     `json:"plot,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Decade returns the item's release decade label, e.g. "1990s".
func (c *ContentItem) Decade() string {
	return DecadeOf(c.Year)
}

// DecadeOf maps a year to its decade label.
func DecadeOf(year int) string {
	return fmt.Sprintf("%ds", (year/10)*10)
}

// RatingValue returns the catalog rating, or 0 and false when the provider
// supplied none.
func (c *ContentItem) RatingValue() (float64, bool) {
	if c.Rating == nil {
		return 0, false
	}
	return *c.Rating, true
}
