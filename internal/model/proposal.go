package model

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProposalRecord is the persisted form of a discovered governance
// proposal. Discovery writes a stub row; resolution fills in the
// normalized fields.
type ProposalRecord struct {
	ID         int64
	URL        string
	Source     string
	Space      string
	ExternalID string

	Title         string
	Body          string
	DisplayStatus string
	Stage         string

	Quorum       *float64
	VotesFor     float64
	VotesAgainst float64
	VotesAbstain float64
	Voters       int
	EndTime      *time.Time

	TopicID      int64
	DiscoveredAt time.Time
	ResolvedAt   *time.Time
	Status       string
}

type ResolveError struct {
	ID           int64
	ProposalID   int64
	ErrorMessage string
	ErrorType    string
	AttemptCount int
	CreatedAt    time.Time
}

// ProposalDigest is an LLM-written plain-language digest over a batch of
// newly resolved proposals.
type ProposalDigest struct {
	ID             int64
	Paragraph      string
	Bullets        []string
	ProposalCount  int
	FromProposalID int64
	ToProposalID   int64
	ModelUsed      string
	CreatedAt      time.Time
}
