package gov

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestTallyFetch(t *testing.T) {
	end := time.Now().Add(75 * time.Hour).UTC().Format(time.RFC3339)

	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("Api-Key")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"proposal": map[string]interface{}{
					"id": "77",
					"metadata": map[string]interface{}{
						"title":       "Deploy Uniswap v3 on BNB Chain",
						"description": "Temp check passed: https://snapshot.org/#/uniswap/proposal/0xfeed",
					},
					"status": "defeated",
					"end":    map[string]interface{}{"timestamp": end},
					"voteStats": []map[string]interface{}{
						{"type": "for", "votesCount": "30000000000000000000000", "votersCount": 120},
						{"type": "against", "votesCount": "10000000000000000000000", "votersCount": 60},
						{"type": "abstain", "votesCount": "0", "votersCount": 0},
					},
					"governor": map[string]interface{}{
						"slug":   "uniswap",
						"quorum": "40000000000000000000000000",
					},
				},
			},
		})
	}))
	defer srv.Close()

	httpClient := &http.Client{Transport: &apiKeyTransport{key: "test-key", base: http.DefaultTransport}}
	client := newTallyClient(srv.URL, httpClient)

	p, err := client.Fetch(context.Background(), Ref{Source: SourceTally, Space: "uniswap", ID: "77"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, SourceTally, p.Source)
	assert.Equal(t, "uniswap", p.Space)
	assert.Equal(t, "77", p.ExternalID)
	assert.Equal(t, StageAIP, p.Stage)

	assert.Equal(t, 30000.0, p.Votes.For)
	assert.Equal(t, 10000.0, p.Votes.Against)
	assert.Equal(t, 180, p.Votes.Voters)
	assert.Equal(t, 75.0, p.Votes.ForPct)
	assert.Equal(t, 25.0, p.Votes.AgainstPct)

	// 40M quorum against 40k total votes: the defeat is a quorum miss
	assert.Equal(t, "Quorum not reached", p.Status)
	assert.Equal(t, 3, *p.DaysLeft)
}

func TestTallyFetchNotFound(t *testing.T) {
	srv := graphqlServer(t, map[string]interface{}{"proposal": nil})
	defer srv.Close()

	client := newTallyClient(srv.URL, http.DefaultClient)
	p, err := client.Fetch(context.Background(), Ref{Source: SourceTally, ID: "0"})

	if p != nil {
		t.Fatalf("expected nil proposal, got %+v", p)
	}
	if !errors.Is(err, ErrNoProposal) {
		t.Fatalf("expected ErrNoProposal, got %v", err)
	}
}
