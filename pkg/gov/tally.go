package gov

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shurcooL/graphql"
)

const tallyAPIURL = "https://api.tally.xyz/query"

// Public read key shipped with the widget; override with TALLY_API_KEY.
const defaultTallyAPIKey = "8f1f9d35a9a7ef6a67d1ab3d115ad3bfbf9e3b2f1f0d9c42"

// TallyClient fetches on-chain proposals from the Tally GraphQL API.
type TallyClient struct {
	gql *graphql.Client
	now func() time.Time
}

func NewTallyClient() *TallyClient {
	key := os.Getenv("TALLY_API_KEY")
	if key == "" {
		key = defaultTallyAPIKey
	}
	httpClient := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &apiKeyTransport{
			key:  key,
			base: http.DefaultTransport,
		},
	}
	return newTallyClient(tallyAPIURL, httpClient)
}

func newTallyClient(endpoint string, httpClient *http.Client) *TallyClient {
	return &TallyClient{
		gql: graphql.NewClient(endpoint, httpClient),
		now: time.Now,
	}
}

// apiKeyTransport adds the Tally Api-Key header to every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("Api-Key", t.key)
	return t.base.RoundTrip(req2)
}

func (c *TallyClient) Name() string {
	return "Tally"
}

type tallyProposalQuery struct {
	Proposal *struct {
		Id       string
		Metadata struct {
			Title       string
			Description string
		}
		Status string
		End    struct {
			Timestamp string
		}
		VoteStats []struct {
			Type        string
			VotesCount  string
			VotersCount int
		}
		Governor struct {
			Slug   string
			Quorum string
		}
	} `graphql:"proposal(id: $id)"`
}

func (c *TallyClient) Fetch(ctx context.Context, ref Ref) (*Proposal, error) {
	var q tallyProposalQuery
	vars := map[string]interface{}{
		"id": graphql.ID(ref.ID),
	}

	err := withRetry(ctx, func(ctx context.Context) error {
		q = tallyProposalQuery{}
		return c.gql.Query(ctx, &q, vars)
	})
	if err != nil {
		return nil, fmt.Errorf("tally query: %w", err)
	}
	if q.Proposal == nil {
		return nil, ErrNoProposal
	}

	raw := q.Proposal

	var forVotes, against, abstain float64
	var voters int
	for _, vs := range raw.VoteStats {
		voters += vs.VotersCount
		switch vs.Type {
		case "for", "FOR":
			forVotes = weiToTokens(vs.VotesCount)
		case "against", "AGAINST":
			against = weiToTokens(vs.VotesCount)
		case "abstain", "ABSTAIN":
			abstain = weiToTokens(vs.VotesCount)
		}
	}
	votes := NewVoteStats(forVotes, against, abstain, voters)

	var quorum *float64
	if qv := weiToTokens(raw.Governor.Quorum); qv > 0 {
		quorum = &qv
	}

	end := ParseEndTime(raw.End.Timestamp)
	days, hours := TimeLeft(end, c.now())

	space := raw.Governor.Slug
	if space == "" {
		space = ref.Space
	}

	return &Proposal{
		Source:     SourceTally,
		Space:      space,
		ExternalID: raw.Id,
		Title:      raw.Metadata.Title,
		Body:       raw.Metadata.Description,
		Status:     DeriveStatus(raw.Status, votes, quorum),
		Stage:      StageAIP,
		Quorum:     quorum,
		EndTime:    end,
		DaysLeft:   days,
		HoursLeft:  hours,
		Votes:      votes,
	}, nil
}
