package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"govcards/db"
	"govcards/internal/model"
	"govcards/internal/repository"
	"govcards/internal/resolver"
	"govcards/pkg/gov"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	const maxRetries = 3
	const popTimeout = 30 * time.Second

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	proposalRepo := repository.NewProposalRepository(db.DB)
	proposalResolver := resolver.New(db.ProposalCache{})

	for {
		id, err := db.PopFromQueue(db.ResolveQueueKey, popTimeout)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}
		if id == "" {
			// queue idle, keep waiting
			continue
		}

		proposalID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slog.Error("invalid proposal id in queue", "id", id, "error", err)
			continue
		}

		errorCount, err := proposalRepo.GetErrorCount(proposalID)
		if err != nil {
			slog.Error("error getting error count", "error", err, "proposal_id", proposalID)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("proposal exceeded max retries, dead-lettering", "proposal_id", proposalID, "error_count", errorCount)
			proposalRepo.UpdateStatus(proposalID, model.StatusFailed)
			db.PushToQueue(db.DeadLetterKey, id)
			continue
		}

		record, err := proposalRepo.GetByID(proposalID)
		if err != nil {
			slog.Error("error getting proposal from DB", "error", err, "proposal_id", proposalID)
			continue
		}

		if record == nil {
			slog.Warn("proposal not found in DB", "proposal_id", proposalID)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		proposal, err := proposalResolver.Resolve(ctx, record.URL)
		cancel()

		if errors.Is(err, gov.ErrNoProposal) {
			// authoritative "no data": do not retry
			slog.Warn("no proposal data for url", "proposal_id", proposalID, "url", record.URL)
			proposalRepo.UpdateStatus(proposalID, model.StatusFailed)
			continue
		}

		if err != nil {
			slog.Error("error resolving proposal", "error", err, "proposal_id", proposalID, "url", record.URL)

			proposalRepo.SaveError(proposalID, err.Error(), "resolve_error")

			db.PushToQueue(db.ResolveQueueKey, id)

			time.Sleep(5 * time.Second)
			continue
		}

		record.Title = proposal.Title
		record.Body = proposal.Body
		record.DisplayStatus = proposal.Status
		record.Stage = string(proposal.Stage)
		record.Quorum = proposal.Quorum
		record.EndTime = proposal.EndTime
		if proposal.Votes != nil {
			record.VotesFor = proposal.Votes.For
			record.VotesAgainst = proposal.Votes.Against
			record.VotesAbstain = proposal.Votes.Abstain
			record.Voters = proposal.Votes.Voters
		}

		err = proposalRepo.UpdateResolved(record)
		if err != nil {
			slog.Error("error saving resolved proposal", "error", err, "proposal_id", proposalID)
			continue
		}

		slog.Info("proposal resolved", "proposal_id", proposalID, "source", proposal.Source, "status", proposal.Status)
	}
}
