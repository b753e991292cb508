package review

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/review"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func (f *fakeReviewRepo) Create(_ context.Context, r *model.Review) error {
	r.ID = uuid.New()
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) Get(_ context.Context, id uuid.UUID) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeReviewRepo) List(_ context.Context, _ *uuid.UUID, publishedOnly bool) ([]*model.Review, error) {
	out := []*model.Review{}
	for _, r := range f.reviews {
		if publishedOnly && !r.IsPublished {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviewRepo) Respond(_ context.Context, id uuid.UUID, response string) error {
	r, ok := f.reviews[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Response = &response
	return nil
}

func (f *fakeReviewRepo) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	r, ok := f.reviews[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.IsPublished = published
	return nil
}

func newTestRouter(repo *fakeReviewRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(review.NewService(repo))

	engine := gin.New()
	engine.POST("/reviews", h.Submit)
	engine.GET("/reviews/public", h.ListPublic)
	engine.PATCH("/reviews/:id/publish", h.Publish)
	return engine
}

func postJSON(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSubmitStartsUnpublished(t *testing.T) {
	repo := &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
	engine := newTestRouter(repo)

	w := postJSON(engine, http.MethodPost, "/reviews", map[string]interface{}{
		"clinic_id":  uuid.New().String(),
		"owner_name": "Sam",
		"rating":     5,
		"comment":    "great care",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	require.Len(t, repo.reviews, 1)
	for _, r := range repo.reviews {
		assert.False(t, r.IsPublished)
	}
}

func TestSubmitRejectsBadRating(t *testing.T) {
	repo := &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
	engine := newTestRouter(repo)

	w := postJSON(engine, http.MethodPost, "/reviews", map[string]interface{}{
		"clinic_id":  uuid.New().String(),
		"owner_name": "Sam",
		"rating":     9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicListHidesUnpublished(t *testing.T) {
	repo := &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
	hidden := &model.Review{ID: uuid.New(), OwnerName: "Sam", Rating: 4}
	shown := &model.Review{ID: uuid.New(), OwnerName: "Alex", Rating: 5, IsPublished: true}
	repo.reviews[hidden.ID] = hidden
	repo.reviews[shown.ID] = shown
	engine := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/reviews/public", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), "Alex")
	assert.NotContains(t, w.Body.String(), "Sam")
}

func TestPublishToggle(t *testing.T) {
	repo := &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
	r := &model.Review{ID: uuid.New(), OwnerName: "Sam", Rating: 4}
	repo.reviews[r.ID] = r
	engine := newTestRouter(repo)

	w := postJSON(engine, http.MethodPatch, "/reviews/"+r.ID.String()+"/publish", map[string]interface{}{
		"is_published": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.reviews[r.ID].IsPublished)
}

func TestPublishUnknownReview(t *testing.T) {
	repo := &fakeReviewRepo{reviews: map[uuid.UUID]*model.Review{}}
	engine := newTestRouter(repo)

	w := postJSON(engine, http.MethodPatch, "/reviews/"+uuid.New().String()+"/publish", map[string]interface{}{
		"is_published": true,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
