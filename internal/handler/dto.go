package handler

type VoteStatsResponse struct {
	For        float64 `json:"for"`
	Against    float64 `json:"against"`
	Abstain    float64 `json:"abstain"`
	Voters     int     `json:"voters"`
	Total      float64 `json:"total"`
	ForPct     float64 `json:"for_pct"`
	AgainstPct float64 `json:"against_pct"`
	AbstainPct float64 `json:"abstain_pct"`
}

type StageLinkResponse struct {
	Stage string `json:"stage"`
	URL   string `json:"url"`
}

type ProposalResponse struct {
	Source     string              `json:"source"`
	Space      string              `json:"space,omitempty"`
	ExternalID string              `json:"external_id"`
	URL        string              `json:"url"`
	Title      string              `json:"title"`
	Status     string              `json:"status"`
	Stage      string              `json:"stage"`
	Quorum     *float64            `json:"quorum"`
	EndTime    *string             `json:"end_time"`
	DaysLeft   *int                `json:"days_left"`
	HoursLeft  *int                `json:"hours_left"`
	Votes      *VoteStatsResponse  `json:"votes"`
	Links      []StageLinkResponse `json:"links,omitempty"`
}

type BatchResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Requested int                `json:"requested"`
	Resolved  int                `json:"resolved"`
}

type FeedProposalResponse struct {
	ID           int64    `json:"id"`
	URL          string   `json:"url"`
	Source       string   `json:"source"`
	Space        string   `json:"space,omitempty"`
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Stage        string   `json:"stage"`
	Quorum       *float64 `json:"quorum"`
	VotesFor     float64  `json:"votes_for"`
	VotesAgainst float64  `json:"votes_against"`
	VotesAbstain float64  `json:"votes_abstain"`
	Voters       int      `json:"voters"`
	EndTime      *string  `json:"end_time"`
	ResolvedAt   *string  `json:"resolved_at"`
}

type FeedResponse struct {
	Proposals []FeedProposalResponse `json:"proposals"`
	Total     int                    `json:"total"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
}

type DigestResponse struct {
	ID             int64    `json:"id"`
	Paragraph      string   `json:"paragraph"`
	Bullets        []string `json:"bullets"`
	ProposalCount  int      `json:"proposal_count"`
	FromProposalID int64    `json:"from_proposal_id"`
	ToProposalID   int64    `json:"to_proposal_id"`
	ModelUsed      string   `json:"model_used"`
	CreatedAt      string   `json:"created_at"`
}
