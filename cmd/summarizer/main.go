package main

import (
	"log"
	"log/slog"
	"os"

	"govcards/db"
	"govcards/internal/model"
	"govcards/internal/repository"
	"govcards/pkg/llm"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var client llm.DigestClient
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		client = llm.NewOpenAIClient(key)
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		client = llm.NewAnthropicClient(key)
	} else {
		slog.Error("no LLM API key configured")
		return
	}

	digestRepo := repository.NewDigestRepository(db.DB)

	fromID, err := digestRepo.GetLastToProposalID()
	if err != nil {
		log.Fatalf("error getting last digest proposal id: %v", err)
	}

	proposals, err := digestRepo.GetProposalsForDigest(fromID)
	if err != nil {
		log.Fatalf("error fetching proposals for digest: %v", err)
	}

	if len(proposals) == 0 {
		slog.Info("no new proposals to digest, exiting")
		return
	}

	slog.Info("digesting proposals", "count", len(proposals), "from_id", fromID)

	inputs := make([]llm.DigestInput, len(proposals))
	for i, p := range proposals {
		inputs[i] = llm.DigestInput{
			Title:  p.Title,
			Status: p.DisplayStatus,
			Stage:  p.Stage,
			Source: p.Source,
		}
	}

	result, err := client.Digest(inputs)
	if err != nil {
		log.Fatalf("error generating digest: %v", err)
	}

	digest := &model.ProposalDigest{
		Paragraph:      result.Paragraph,
		Bullets:        result.Bullets,
		ProposalCount:  len(proposals),
		FromProposalID: proposals[0].ID,
		ToProposalID:   proposals[len(proposals)-1].ID,
		ModelUsed:      result.ModelUsed,
	}

	err = digestRepo.SaveDigest(digest)
	if err != nil {
		log.Fatalf("error saving digest: %v", err)
	}

	slog.Info("digest saved successfully", "digest_id", digest.ID, "proposal_count", digest.ProposalCount)
}
