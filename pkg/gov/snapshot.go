package gov

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
)

const snapshotHubURL = "https://hub.snapshot.org/graphql"

// SnapshotClient fetches proposals from the Snapshot hub GraphQL API.
type SnapshotClient struct {
	gql *graphql.Client
	now func() time.Time
}

func NewSnapshotClient() *SnapshotClient {
	return newSnapshotClient(snapshotHubURL, &http.Client{Timeout: 15 * time.Second})
}

func newSnapshotClient(endpoint string, httpClient *http.Client) *SnapshotClient {
	return &SnapshotClient{
		gql: graphql.NewClient(endpoint, httpClient),
		now: time.Now,
	}
}

func (c *SnapshotClient) Name() string {
	return "Snapshot"
}

type snapshotProposalQuery struct {
	Proposal *struct {
		Id          string
		Title       string
		Body        string
		Choices     []string
		Scores      []float64
		ScoresTotal float64 `graphql:"scores_total"`
		State       string
		End         float64
		Quorum      float64
		Votes       int
		Space       struct {
			Id string
		}
	} `graphql:"proposal(id: $id)"`
}

func (c *SnapshotClient) Fetch(ctx context.Context, ref Ref) (*Proposal, error) {
	var q snapshotProposalQuery
	vars := map[string]interface{}{
		"id": graphql.String(ref.ID),
	}

	err := withRetry(ctx, func(ctx context.Context) error {
		q = snapshotProposalQuery{}
		return c.gql.Query(ctx, &q, vars)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot query: %w", err)
	}
	if q.Proposal == nil {
		return nil, ErrNoProposal
	}

	raw := q.Proposal
	forVotes, against, abstain := SplitChoiceVotes(raw.Choices, raw.Scores)
	votes := NewVoteStats(forVotes, against, abstain, raw.Votes)

	var quorum *float64
	if raw.Quorum > 0 {
		qv := raw.Quorum
		quorum = &qv
	}

	end := ParseEndTime(raw.End)
	days, hours := TimeLeft(end, c.now())

	space := raw.Space.Id
	if space == "" {
		space = ref.Space
	}

	return &Proposal{
		Source:     SourceSnapshot,
		Space:      space,
		ExternalID: raw.Id,
		Title:      raw.Title,
		Body:       raw.Body,
		Status:     DeriveStatus(raw.State, votes, quorum),
		Stage:      DeriveStage(SourceSnapshot, raw.Title),
		Quorum:     quorum,
		EndTime:    end,
		DaysLeft:   days,
		HoursLeft:  hours,
		Votes:      votes,
	}, nil
}
