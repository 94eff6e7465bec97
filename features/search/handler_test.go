package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"crepulse/internal/article"
	"crepulse/internal/search"
)

type MockSearcher struct{ mock.Mock }

func (m *MockSearcher) Similar(ctx context.Context, query string, src article.Source, limit int) ([]search.Result, error) {
	args := m.Called(ctx, query, src, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}

func TestHandler_Search_Table(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMocks func(*MockSearcher)
		wantStatus int
		wantCode   string
		checkBody  func(*testing.T, map[string]interface{})
	}{
		{
			name:   "Success",
			target: "/search?q=rent+growth&source=credaily&limit=5",
			setupMocks: func(s *MockSearcher) {
				s.On("Similar", mock.Anything, "rent growth", article.SourceCREDaily, 5).
					Return([]search.Result{{ArticleID: 3, Title: "Rent growth slows", Certainty: 0.88}}, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].([]interface{})
				assert.Len(t, data, 1)
				first := data[0].(map[string]interface{})
				assert.Equal(t, "Rent growth slows", first["title"])
			},
		},
		{
			name:   "NoResults",
			target: "/search?q=x&source=multihousing",
			setupMocks: func(s *MockSearcher) {
				s.On("Similar", mock.Anything, "x", article.SourceMultihousing, 0).
					Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].([]interface{})
				assert.Empty(t, data)
			},
		},
		{
			name:       "MissingQuery",
			target:     "/search?source=credaily",
			setupMocks: func(s *MockSearcher) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "UnknownSource",
			target:     "/search?q=x&source=bisnow",
			setupMocks: func(s *MockSearcher) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "BadLimit",
			target:     "/search?q=x&source=credaily&limit=ten",
			setupMocks: func(s *MockSearcher) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:   "ServiceError",
			target: "/search?q=x&source=credaily",
			setupMocks: func(s *MockSearcher) {
				s.On("Similar", mock.Anything, "x", article.SourceCREDaily, 0).
					Return(nil, errors.New("weaviate down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSearcher)
			tt.setupMocks(m)

			h := NewHandler(m)
			req := httptest.NewRequest("GET", tt.target, nil)
			w := httptest.NewRecorder()

			h.Search(w, req)

			resp := w.Result()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			err := json.NewDecoder(resp.Body).Decode(&body)
			assert.NoError(t, err)

			if tt.wantCode != "" {
				errMap := body["error"].(map[string]interface{})
				assert.Equal(t, tt.wantCode, errMap["code"])
			} else {
				tt.checkBody(t, body)
			}
			m.AssertExpectations(t)
		})
	}
}
