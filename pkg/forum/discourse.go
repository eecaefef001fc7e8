// Package forum is a read-only client for the Discourse JSON API.
package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Topic struct {
	ID       int64
	Title    string
	Slug     string
	BumpedAt time.Time
}

type Post struct {
	ID     int64
	Cooked string
}

type DiscourseClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDiscourseClient(baseURL string) *DiscourseClient {
	return &DiscourseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// LatestTopics returns the forum's most recently active topics.
func (c *DiscourseClient) LatestTopics(ctx context.Context) ([]Topic, error) {
	var raw latestResponse
	if err := c.getJSON(ctx, "/latest.json", &raw); err != nil {
		return nil, fmt.Errorf("discourse latest: %w", err)
	}

	topics := make([]Topic, 0, len(raw.TopicList.Topics))
	for _, t := range raw.TopicList.Topics {
		bumpedAt, err := time.Parse(time.RFC3339, t.BumpedAt)
		if err != nil {
			bumpedAt = time.Time{}
		}
		topics = append(topics, Topic{
			ID:       t.ID,
			Title:    t.Title,
			Slug:     t.Slug,
			BumpedAt: bumpedAt,
		})
	}

	return topics, nil
}

// TopicPosts returns the rendered post bodies of one topic.
func (c *DiscourseClient) TopicPosts(ctx context.Context, topicID int64) ([]Post, error) {
	var raw topicResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/t/%d.json", topicID), &raw); err != nil {
		return nil, fmt.Errorf("discourse topic %d: %w", topicID, err)
	}

	posts := make([]Post, 0, len(raw.PostStream.Posts))
	for _, p := range raw.PostStream.Posts {
		posts = append(posts, Post{ID: p.ID, Cooked: p.Cooked})
	}

	return posts, nil
}

func (c *DiscourseClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type latestResponse struct {
	TopicList struct {
		Topics []struct {
			ID       int64  `json:"id"`
			Title    string `json:"title"`
			Slug     string `json:"slug"`
			BumpedAt string `json:"bumped_at"`
		} `json:"topics"`
	} `json:"topic_list"`
}

type topicResponse struct {
	PostStream struct {
		Posts []struct {
			ID     int64  `json:"id"`
			Cooked string `json:"cooked"`
		} `json:"posts"`
	} `json:"post_stream"`
}
