package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"govcards/db"
	"govcards/internal/repository"
	"govcards/internal/scan"
	"govcards/pkg/forum"

	"github.com/joho/godotenv"
)

const defaultScanInterval = 2 * time.Minute

type redisQueue struct{}

func (redisQueue) Push(data string) error {
	return db.PushToQueue(db.ResolveQueueKey, data)
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	forumURL := os.Getenv("FORUM_URL")
	if forumURL == "" {
		slog.Error("FORUM_URL is not set")
		return
	}

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	interval := defaultScanInterval
	if raw := os.Getenv("SCAN_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	maxTopics := 0
	if raw := os.Getenv("SCAN_MAX_TOPICS"); raw != "" {
		maxTopics, _ = strconv.Atoi(raw)
	}

	repo := repository.NewProposalRepository(db.DB)
	scanner := scan.New(forum.NewDiscourseClient(forumURL), repo, redisQueue{}, maxTopics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("scanner starting", "forum", forumURL, "interval", interval.String())
	scanner.Run(ctx, interval)
	slog.Info("scanner stopped")
}
