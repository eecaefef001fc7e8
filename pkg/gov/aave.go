package gov

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shurcooL/graphql"
)

// AIPs live on one of three chains. The subgraphs are tried in order and
// the first chain that knows the proposal wins.
var aaveSubgraphs = []aaveEndpoint{
	{chain: "mainnet", url: "https://api.thegraph.com/subgraphs/name/aave/governance-v2"},
	{chain: "polygon", url: "https://api.thegraph.com/subgraphs/name/aave/governance-v2-polygon"},
	{chain: "avalanche", url: "https://api.thegraph.com/subgraphs/name/aave/governance-v2-avalanche"},
}

type aaveEndpoint struct {
	chain string
	url   string
}

// AaveClient fetches AIPs from the Aave governance subgraphs.
type AaveClient struct {
	endpoints  []aaveEndpoint
	httpClient *http.Client
	now        func() time.Time
}

func NewAaveClient() *AaveClient {
	return newAaveClient(aaveSubgraphs, &http.Client{Timeout: 15 * time.Second})
}

func newAaveClient(endpoints []aaveEndpoint, httpClient *http.Client) *AaveClient {
	return &AaveClient{
		endpoints:  endpoints,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *AaveClient) Name() string {
	return "Aave"
}

type aaveProposalQuery struct {
	Proposals []struct {
		Id                  string
		Title               string
		ShortDescription    string
		State               string
		ForVotes            string
		AgainstVotes        string
		TotalCurrentVoters  int
		MinimumQuorum       string
		ExpirationTimestamp string
	} `graphql:"proposals(where: {id: $id})"`
}

// Fetch walks the chain fallback sequence. A chain that errors, times
// out, or returns no rows hands over to the next one; only when every
// chain comes up empty does the proposal count as missing.
func (c *AaveClient) Fetch(ctx context.Context, ref Ref) (*Proposal, error) {
	var lastErr error
	for _, ep := range c.endpoints {
		p, err := c.fetchFromChain(ctx, ep, ref)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNoProposal) {
			slog.Warn("aave subgraph failed, trying next chain", "chain", ep.chain, "error", err)
			lastErr = err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("aave query: %w", lastErr)
	}
	return nil, ErrNoProposal
}

func (c *AaveClient) fetchFromChain(ctx context.Context, ep aaveEndpoint, ref Ref) (*Proposal, error) {
	gql := graphql.NewClient(ep.url, c.httpClient)

	var q aaveProposalQuery
	vars := map[string]interface{}{
		"id": graphql.String(ref.ID),
	}

	err := withRetry(ctx, func(ctx context.Context) error {
		q = aaveProposalQuery{}
		return gql.Query(ctx, &q, vars)
	})
	if err != nil {
		return nil, err
	}
	if len(q.Proposals) == 0 {
		return nil, ErrNoProposal
	}

	raw := q.Proposals[0]
	votes := NewVoteStats(weiToTokens(raw.ForVotes), weiToTokens(raw.AgainstVotes), 0, raw.TotalCurrentVoters)

	var quorum *float64
	if qv := weiToTokens(raw.MinimumQuorum); qv > 0 {
		quorum = &qv
	}

	end := ParseEndTime(raw.ExpirationTimestamp)
	days, hours := TimeLeft(end, c.now())

	title := raw.Title
	if title == "" {
		title = "AIP " + raw.Id
	}

	return &Proposal{
		Source:     SourceAave,
		ExternalID: raw.Id,
		Title:      title,
		Body:       raw.ShortDescription,
		Status:     DeriveStatus(raw.State, votes, quorum),
		Stage:      StageAIP,
		Quorum:     quorum,
		EndTime:    end,
		DaysLeft:   days,
		HoursLeft:  hours,
		Votes:      votes,
	}, nil
}

// The subgraph encodes vote weights in wei.
func weiToTokens(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f / 1e18
}
