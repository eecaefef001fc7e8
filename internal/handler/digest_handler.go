package handler

import (
	"log/slog"
	"net/http"
	"time"

	"govcards/internal/model"

	"github.com/gin-gonic/gin"
)

type DigestStore interface {
	GetLatestDigest() (*model.ProposalDigest, error)
	GetDigests(limit, offset int) ([]model.ProposalDigest, error)
}

type DigestHandler struct {
	repository DigestStore
}

func NewDigestHandler(repository DigestStore) *DigestHandler {
	return &DigestHandler{repository: repository}
}

func (h *DigestHandler) GetLatestDigest(c *gin.Context) {
	digest, err := h.repository.GetLatestDigest()
	if err != nil {
		slog.Error("error fetching latest digest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if digest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No digest available"})
		return
	}

	c.JSON(http.StatusOK, toDigestResponse(*digest))
}

func (h *DigestHandler) GetDigests(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	digests, err := h.repository.GetDigests(limit, offset)
	if err != nil {
		slog.Error("error fetching digests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]DigestResponse, 0, len(digests))
	for _, d := range digests {
		res = append(res, toDigestResponse(d))
	}

	c.JSON(http.StatusOK, res)
}

func toDigestResponse(d model.ProposalDigest) DigestResponse {
	return DigestResponse{
		ID:             d.ID,
		Paragraph:      d.Paragraph,
		Bullets:        d.Bullets,
		ProposalCount:  d.ProposalCount,
		FromProposalID: d.FromProposalID,
		ToProposalID:   d.ToProposalID,
		ModelUsed:      d.ModelUsed,
		CreatedAt:      d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
