package models

import "sort"

// PreferenceProfile is a derived view of an actor's taste, recomputed from
// the full interaction ledger on every use and never persisted.
type PreferenceProfile struct {
	GenreWeights  map[string]float64
	DecadeWeights map[string]float64
	TypeWeights   map[ContentType]float64

	// QualityScore accumulates rating*weight over rated items.
	QualityScore float64

	// Strength is positive events over all weighted events, in [0,1].
	Strength float64

	PositiveCount int
	NegativeCount int
}

// NewPreferenceProfile returns an empty profile with the neutral movie/series
// split the scorer expects.
func NewPreferenceProfile() *PreferenceProfile {
	return &PreferenceProfile{
		GenreWeights:  make(map[string]float64),
		DecadeWeights: make(map[string]float64),
		TypeWeights: map[ContentType]float64{
			ContentTypeMovie:  0.5,
			ContentTypeSeries: 0.5,
		},
	}
}

// IsEmpty reports whether the profile carries no genre signal at all.
func (p *PreferenceProfile) IsEmpty() bool {
	return len(p.GenreWeights) == 0
}

// TopGenres returns up to n genres ordered by descending weight.
func (p *PreferenceProfile) TopGenres(n int) []string {
	type gw struct {
		genre  string
		weight float64
	}
	ranked := make([]gw, 0, len(p.GenreWeights))
	for g, w := range p.GenreWeights {
		ranked = append(ranked, gw{g, w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].genre < ranked[j].genre
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	genres := make([]string, 0, n)
	for _, r := range ranked[:n] {
		genres = append(genres, r.genre)
	}
	return genres
}
