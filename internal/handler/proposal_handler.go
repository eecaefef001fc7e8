package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"govcards/internal/model"
	"govcards/pkg/gov"

	"github.com/gin-gonic/gin"
)

type ProposalResolver interface {
	Resolve(ctx context.Context, rawURL string) (*gov.Proposal, error)
	ResolveAll(ctx context.Context, urls []string) []*gov.Proposal
}

type ProposalStore interface {
	GetFeed(limit, offset int) ([]model.ProposalRecord, error)
	GetFeedTotal() (int, error)
}

type ProposalHandler struct {
	resolver   ProposalResolver
	repository ProposalStore
}

func NewProposalHandler(resolver ProposalResolver, repository ProposalStore) *ProposalHandler {
	return &ProposalHandler{resolver: resolver, repository: repository}
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	p, err := h.resolver.Resolve(c.Request.Context(), url)
	if errors.Is(err, gov.ErrNoProposal) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No proposal found"})
		return
	}
	if err != nil {
		// Degrade to "no data" rather than exposing upstream failures.
		slog.Error("error resolving proposal", "url", url, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "No proposal found"})
		return
	}

	c.JSON(http.StatusOK, toProposalResponse(p))
}

func (h *ProposalHandler) GetProposals(c *gin.Context) {
	raw := c.Query("urls")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing urls parameter"})
		return
	}

	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	proposals := h.resolver.ResolveAll(c.Request.Context(), urls)

	res := BatchResponse{
		Proposals: make([]ProposalResponse, 0, len(proposals)),
		Requested: len(urls),
		Resolved:  len(proposals),
	}
	for _, p := range proposals {
		res.Proposals = append(res.Proposals, toProposalResponse(p))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProposalHandler) GetFeed(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	proposals, err := h.repository.GetFeed(limit, offset)
	if err != nil {
		slog.Error("error fetching proposal feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetFeedTotal()
	if err != nil {
		slog.Error("error fetching proposal feed total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := FeedResponse{
		Proposals: make([]FeedProposalResponse, 0, len(proposals)),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
	for _, p := range proposals {
		res.Proposals = append(res.Proposals, toFeedProposalResponse(p))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProposalHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetFeedTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toProposalResponse(p *gov.Proposal) ProposalResponse {
	res := ProposalResponse{
		Source:     string(p.Source),
		Space:      p.Space,
		ExternalID: p.ExternalID,
		URL:        p.URL,
		Title:      p.Title,
		Status:     p.Status,
		Stage:      string(p.Stage),
		Quorum:     p.Quorum,
		DaysLeft:   p.DaysLeft,
		HoursLeft:  p.HoursLeft,
	}
	if p.EndTime != nil {
		s := p.EndTime.UTC().Format(time.RFC3339)
		res.EndTime = &s
	}
	if p.Votes != nil {
		res.Votes = &VoteStatsResponse{
			For:        p.Votes.For,
			Against:    p.Votes.Against,
			Abstain:    p.Votes.Abstain,
			Voters:     p.Votes.Voters,
			Total:      p.Votes.Total,
			ForPct:     p.Votes.ForPct,
			AgainstPct: p.Votes.AgainstPct,
			AbstainPct: p.Votes.AbstainPct,
		}
	}
	for _, link := range p.Links {
		res.Links = append(res.Links, StageLinkResponse{Stage: string(link.Stage), URL: link.URL})
	}
	return res
}

func toFeedProposalResponse(p model.ProposalRecord) FeedProposalResponse {
	res := FeedProposalResponse{
		ID:           p.ID,
		URL:          p.URL,
		Source:       p.Source,
		Space:        p.Space,
		ExternalID:   p.ExternalID,
		Title:        p.Title,
		Status:       p.DisplayStatus,
		Stage:        p.Stage,
		Quorum:       p.Quorum,
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		VotesAbstain: p.VotesAbstain,
		Voters:       p.Voters,
	}
	if p.EndTime != nil {
		s := p.EndTime.UTC().Format(time.RFC3339)
		res.EndTime = &s
	}
	if p.ResolvedAt != nil {
		s := p.ResolvedAt.UTC().Format(time.RFC3339)
		res.ResolvedAt = &s
	}
	return res
}

func getQueryLimit(c *gin.Context) int {
	limit := 10
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 && parsed <= 100 {
		limit = parsed
	}
	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := 0
	if parsed, err := strconv.Atoi(c.Query("offset")); err == nil && parsed > 0 {
		offset = parsed
	}
	return offset
}
