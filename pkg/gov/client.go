package gov

import (
	"context"
	"errors"
	"time"
)

// ErrNoProposal is returned when a source has no proposal for the given
// reference. Callers treat it as "no data", not as a failure.
var ErrNoProposal = errors.New("no proposal found")

type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceAave     Source = "aip"
	SourceTally    Source = "tally"
	SourceNone     Source = "none"
)

// Stage is the governance lifecycle step a proposal belongs to.
type Stage string

const (
	StageTempCheck Stage = "temp-check"
	StageARFC      Stage = "arfc"
	StageAIP       Stage = "aip"
	StageSnapshot  Stage = "snapshot"
)

// VoteStats holds normalized voting totals for a proposal. Percentages are
// rounded to two decimals and sum to 100 when Total > 0, modulo rounding.
type VoteStats struct {
	For     float64
	Against float64
	Abstain float64
	Voters  int

	Total      float64
	ForPct     float64
	AgainstPct float64
	AbstainPct float64
}

// StageLink points at a related proposal in another governance stage,
// discovered inside a proposal body.
type StageLink struct {
	Stage Stage
	URL   string
}

// Proposal is the shared view model all three sources normalize into.
// Nullable fields stay nil when the upstream data is ambiguous or absent.
type Proposal struct {
	Source     Source
	Space      string
	ExternalID string
	URL        string

	Title  string
	Body   string
	Status string
	Stage  Stage

	Quorum    *float64
	EndTime   *time.Time
	DaysLeft  *int
	HoursLeft *int

	Votes *VoteStats
	Links []StageLink
}

type SourceClient interface {
	Fetch(ctx context.Context, ref Ref) (*Proposal, error)
	Name() string
}
