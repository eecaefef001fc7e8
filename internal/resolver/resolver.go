// Package resolver turns raw URLs into normalized proposals, going
// through the Redis cache before hitting a source API.
package resolver

import (
	"context"
	"log/slog"
	"sync"

	"govcards/pkg/gov"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentFetches = 4

// Cache is the 5-minute freshness window over normalized proposals.
type Cache interface {
	Get(url string) (*gov.Proposal, bool, error)
	Set(url string, p *gov.Proposal) error
}

type Resolver struct {
	clients map[gov.Source]gov.SourceClient
	cache   Cache
}

func New(cache Cache) *Resolver {
	return &Resolver{
		clients: map[gov.Source]gov.SourceClient{
			gov.SourceSnapshot: gov.NewSnapshotClient(),
			gov.SourceAave:     gov.NewAaveClient(),
			gov.SourceTally:    gov.NewTallyClient(),
		},
		cache: cache,
	}
}

// NewWithClients wires explicit source clients; used by tests.
func NewWithClients(cache Cache, clients map[gov.Source]gov.SourceClient) *Resolver {
	return &Resolver{clients: clients, cache: cache}
}

// Resolve classifies rawURL and returns the normalized proposal.
// Unclassifiable URLs and empty source answers come back as
// gov.ErrNoProposal; only transport-level failures surface as other
// errors, so callers can decide whether to retry.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*gov.Proposal, error) {
	ref := gov.Classify(rawURL)
	if ref.Source == gov.SourceNone {
		return nil, gov.ErrNoProposal
	}

	if cached, ok, err := r.cache.Get(rawURL); err != nil {
		slog.Warn("proposal cache read failed", "url", rawURL, "error", err)
	} else if ok {
		return cached, nil
	}

	client, ok := r.clients[ref.Source]
	if !ok {
		return nil, gov.ErrNoProposal
	}

	p, err := client.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	p.URL = rawURL
	if p.Space == "" {
		p.Space = ref.Space
	}
	p.Links = gov.DiscoverLinks(p.Body)

	if err := r.cache.Set(rawURL, p); err != nil {
		slog.Warn("proposal cache write failed", "url", rawURL, "error", err)
	}

	return p, nil
}

// ResolveAll fetches every URL concurrently and keeps the successes;
// individual failures are logged and dropped, never failing the batch.
func (r *Resolver) ResolveAll(ctx context.Context, urls []string) []*gov.Proposal {
	var mu sync.Mutex
	var proposals []*gov.Proposal

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, url := range urls {
		g.Go(func() error {
			p, err := r.Resolve(ctx, url)
			if err != nil {
				slog.Info("skipping unresolvable proposal url", "url", url, "error", err)
				return nil
			}
			mu.Lock()
			proposals = append(proposals, p)
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return proposals
}
