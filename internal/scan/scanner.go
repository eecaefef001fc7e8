// Package scan walks recent forum topics looking for governance-proposal
// URLs and queues them for resolution.
package scan

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	"govcards/internal/model"
	"govcards/pkg/forum"
	"govcards/pkg/gov"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractRefs pulls every classifiable governance URL out of free text,
// deduplicated by URL in order of first occurrence.
func ExtractRefs(text string) map[string]gov.Ref {
	refs := make(map[string]gov.Ref)
	for _, url := range urlPattern.FindAllString(text, -1) {
		if _, seen := refs[url]; seen {
			continue
		}
		if ref := gov.Classify(url); ref.Source != gov.SourceNone {
			refs[url] = ref
		}
	}
	return refs
}

type Forum interface {
	LatestTopics(ctx context.Context) ([]forum.Topic, error)
	TopicPosts(ctx context.Context, topicID int64) ([]forum.Post, error)
}

type Store interface {
	SaveDiscovered(p *model.ProposalRecord) (bool, error)
}

type Queue interface {
	Push(data string) error
}

type Stats struct {
	Topics     int
	Discovered int
	Duplicates int
	Errors     int
}

type Scanner struct {
	forum Forum
	store Store
	queue Queue

	maxTopics int
	inFlight  atomic.Bool
}

func New(f Forum, store Store, queue Queue, maxTopics int) *Scanner {
	if maxTopics <= 0 {
		maxTopics = 30
	}
	return &Scanner{forum: f, store: store, queue: queue, maxTopics: maxTopics}
}

// ScanOnce walks the latest topics once. Overlapping scans are skipped:
// if a scan is still in flight the call returns immediately with ok
// false, mirroring the single in-flight scan the browser widget kept.
func (s *Scanner) ScanOnce(ctx context.Context) (Stats, bool) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Stats{}, false
	}
	defer s.inFlight.Store(false)

	var stats Stats

	topics, err := s.forum.LatestTopics(ctx)
	if err != nil {
		slog.Error("error listing latest topics", "error", err)
		stats.Errors++
		return stats, true
	}
	if len(topics) > s.maxTopics {
		topics = topics[:s.maxTopics]
	}

	for _, topic := range topics {
		if ctx.Err() != nil {
			return stats, true
		}
		stats.Topics++

		posts, err := s.forum.TopicPosts(ctx, topic.ID)
		if err != nil {
			slog.Error("error fetching topic posts", "topic_id", topic.ID, "error", err)
			stats.Errors++
			continue
		}

		for _, post := range posts {
			for url, ref := range ExtractRefs(post.Cooked) {
				record := &model.ProposalRecord{
					URL:        url,
					Source:     string(ref.Source),
					Space:      ref.Space,
					ExternalID: ref.ID,
					TopicID:    topic.ID,
				}

				saved, err := s.store.SaveDiscovered(record)
				if err != nil {
					slog.Error("error saving discovered proposal", "url", url, "error", err)
					stats.Errors++
					continue
				}
				if !saved {
					stats.Duplicates++
					continue
				}

				stats.Discovered++
				if err := s.queue.Push(strconv.FormatInt(record.ID, 10)); err != nil {
					slog.Error("error queueing proposal for resolution", "url", url, "error", err)
					stats.Errors++
				}
			}
		}
	}

	return stats, true
}

// Run scans on a fixed interval until the context ends.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats, ran := s.ScanOnce(ctx)
		if ran {
			slog.Info("scan complete", "topics", stats.Topics, "discovered", stats.Discovered,
				"duplicates", stats.Duplicates, "errors", stats.Errors)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
