package main

import (
	"log"
	"log/slog"
	"os"

	"govcards/db"
	"govcards/internal/handler"
	"govcards/internal/repository"
	"govcards/internal/resolver"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	proposalResolver := resolver.New(db.ProposalCache{})
	proposalRepo := repository.NewProposalRepository(db.DB)
	proposalHandler := handler.NewProposalHandler(proposalResolver, proposalRepo)

	digestRepo := repository.NewDigestRepository(db.DB)
	digestHandler := handler.NewDigestHandler(digestRepo)

	r := gin.Default()

	// the Discourse theme fetches cards cross-origin
	allowedOrigins := []string{"http://localhost:3000"}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/proposal", proposalHandler.GetProposal)
	r.GET("/proposal/card", proposalHandler.GetCard)
	r.GET("/proposals", proposalHandler.GetProposals)
	r.GET("/feed", proposalHandler.GetFeed)
	r.GET("/digests/latest", digestHandler.GetLatestDigest)
	r.GET("/digests", digestHandler.GetDigests)
	r.GET("/health", proposalHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
