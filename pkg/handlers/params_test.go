package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

func TestParseContentID(t *testing.T) {
	logger := zap.NewNop()
	contentID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/"+contentID.String(), nil)
	req.SetPathValue("cid", contentID.String())
	rec := httptest.NewRecorder()

	got, ok := ParseContentID(rec, req, logger)
	assert.True(t, ok)
	assert.Equal(t, contentID, got)

	req = httptest.NewRequest(http.MethodDelete, "/api/watchlist/garbage", nil)
	req.SetPathValue("cid", "garbage")
	rec = httptest.NewRecorder()

	_, ok = ParseContentID(rec, req, logger)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseContentTypeFilter(t *testing.T) {
	logger := zap.NewNop()

	t.Run("absent returns nil filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
		ct, ok := ParseContentTypeFilter(httptest.NewRecorder(), req, logger)
		assert.True(t, ok)
		assert.Nil(t, ct)
	})

	t.Run("valid type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/watchlist?type=series", nil)
		ct, ok := ParseContentTypeFilter(httptest.NewRecorder(), req, logger)
		assert.True(t, ok)
		require.NotNil(t, ct)
		assert.Equal(t, models.ContentTypeSeries, *ct)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/watchlist?type=documentary", nil)
		rec := httptest.NewRecorder()
		_, ok := ParseContentTypeFilter(rec, req, logger)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestParsePagination(t *testing.T) {
	logger := zap.NewNop()

	t.Run("defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
		offset, limit, ok := ParsePagination(httptest.NewRecorder(), req, logger)
		assert.True(t, ok)
		assert.Equal(t, 0, offset)
		assert.Equal(t, defaultPageLimit, limit)
	})

	t.Run("explicit values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/recommendations?offset=30&limit=50", nil)
		offset, limit, ok := ParsePagination(httptest.NewRecorder(), req, logger)
		assert.True(t, ok)
		assert.Equal(t, 30, offset)
		assert.Equal(t, 50, limit)
	})

	rejections := []struct {
		name  string
		query string
	}{
		{"negative offset", "?offset=-1"},
		{"non-numeric offset", "?offset=abc"},
		{"zero limit", "?limit=0"},
		{"limit above cap", "?limit=101"},
		{"non-numeric limit", "?limit=ten"},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/recommendations"+tt.query, nil)
			rec := httptest.NewRecorder()
			_, _, ok := ParsePagination(rec, req, logger)
			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
