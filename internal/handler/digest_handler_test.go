package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govcards/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeDigestStore struct {
	latest  *model.ProposalDigest
	digests []model.ProposalDigest
	err     error
}

func (f *fakeDigestStore) GetLatestDigest() (*model.ProposalDigest, error) {
	return f.latest, f.err
}

func (f *fakeDigestStore) GetDigests(limit, offset int) ([]model.ProposalDigest, error) {
	return f.digests, f.err
}

func newDigestRouter(store DigestStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDigestHandler(store)
	r.GET("/digests/latest", h.GetLatestDigest)
	r.GET("/digests", h.GetDigests)
	return r
}

func TestGetLatestDigest(t *testing.T) {
	store := &fakeDigestStore{
		latest: &model.ProposalDigest{
			ID:            4,
			Paragraph:     "Three proposals moved forward this week.",
			Bullets:       []string{"AIP 118 executed", "wstETH caps ARFC passed"},
			ProposalCount: 3,
			ModelUsed:     "gpt-4o-mini",
			CreatedAt:     time.Now(),
		},
	}
	r := newDigestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DigestResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(4), res.ID)
	assert.Equal(t, 2, len(res.Bullets))
	assert.Equal(t, 3, res.ProposalCount)
}

func TestGetLatestDigestEmpty(t *testing.T) {
	r := newDigestRouter(&fakeDigestStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
