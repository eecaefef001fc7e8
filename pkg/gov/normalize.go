package gov

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NewVoteStats computes totals and two-decimal percentage breakdowns from
// non-negative vote weights.
func NewVoteStats(forVotes, against, abstain float64, voters int) *VoteStats {
	v := &VoteStats{
		For:     forVotes,
		Against: against,
		Abstain: abstain,
		Voters:  voters,
		Total:   forVotes + against + abstain,
	}
	if v.Total > 0 {
		// The abstain share is derived from the other two: rounding all
		// three independently can push the sum past 100.
		v.ForPct = pct(v.For, v.Total)
		v.AgainstPct = pct(v.Against, v.Total)
		v.AbstainPct = round2(100 - v.ForPct - v.AgainstPct)
		if v.AbstainPct <= 0 {
			v.AbstainPct = 0
			v.AgainstPct = round2(100 - v.ForPct)
		}
	}
	return v
}

func pct(part, total float64) float64 {
	return round2(part / total * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SplitChoiceVotes maps a snapshot-style parallel choices/scores pair onto
// for/against/abstain buckets. Choice names are matched first; when names
// give no signal the positional convention (for, against, abstain) applies.
func SplitChoiceVotes(choices []string, scores []float64) (forVotes, against, abstain float64) {
	for i, choice := range choices {
		if i >= len(scores) {
			break
		}
		switch classifyChoice(choice) {
		case choiceFor:
			forVotes += scores[i]
		case choiceAgainst:
			against += scores[i]
		case choiceAbstain:
			abstain += scores[i]
		default:
			switch i {
			case 0:
				forVotes += scores[i]
			case 1:
				against += scores[i]
			case 2:
				abstain += scores[i]
			}
		}
	}
	return forVotes, against, abstain
}

type choiceKind int

const (
	choiceUnknown choiceKind = iota
	choiceFor
	choiceAgainst
	choiceAbstain
)

func classifyChoice(choice string) choiceKind {
	c := strings.ToLower(strings.TrimSpace(choice))
	switch {
	case strings.HasPrefix(c, "for"), strings.HasPrefix(c, "yes"), strings.HasPrefix(c, "yae"), strings.HasPrefix(c, "aye"), strings.HasPrefix(c, "approve"):
		return choiceFor
	case strings.HasPrefix(c, "against"), strings.HasPrefix(c, "no"), strings.HasPrefix(c, "nay"), strings.HasPrefix(c, "reject"):
		return choiceAgainst
	case strings.HasPrefix(c, "abstain"):
		return choiceAbstain
	}
	return choiceUnknown
}

// ParseEndTime accepts an end timestamp in whichever encoding a source
// uses: unix seconds, unix milliseconds, or an ISO-8601 string. Numeric
// strings are treated like numbers. Anything else yields nil.
func ParseEndTime(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return fromUnix(v)
	case int64:
		return fromUnix(float64(v))
	case int:
		return fromUnix(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromUnix(f)
		}
	}
	return nil
}

func fromUnix(v float64) *time.Time {
	if v <= 0 {
		return nil
	}
	// Millisecond timestamps are 13 digits, second timestamps 10.
	if v >= 1e12 {
		v = v / 1000
	}
	t := time.Unix(int64(v), 0).UTC()
	return &t
}

// TimeLeft derives whole days and hours remaining until end. Both are nil
// when end is nil, and zero-valued once end has passed.
func TimeLeft(end *time.Time, now time.Time) (daysLeft, hoursLeft *int) {
	if end == nil {
		return nil, nil
	}
	remaining := end.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) - days*24
	return &days, &hours
}

// DeriveStatus turns a source-specific status/state word into the display
// label, applying the override rules:
//   - "queued" becomes "Pending execution" when quorum is met and the
//     proposal carries a majority in favor;
//   - "defeated" becomes "Quorum not reached" when the total vote weight
//     is below quorum;
//   - "closed" snapshot proposals get their outcome inferred from votes.
//
// The function is idempotent: feeding a derived label back in returns the
// same label.
func DeriveStatus(raw string, votes *VoteStats, quorum *float64) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "Unknown"
	case "active":
		return "Active"
	case "pending":
		return "Pending"
	case "executed":
		return "Executed"
	case "succeeded", "passed":
		return statusWithQuorum("Passed", votes, quorum)
	case "canceled", "cancelled":
		return "Canceled"
	case "expired":
		return "Expired"
	case "queued":
		if quorumReached(votes, quorum) && votes != nil && votes.For > votes.Against {
			return "Pending execution"
		}
		return "Queued"
	case "defeated", "failed":
		return statusWithQuorum("Defeated", votes, quorum)
	case "closed":
		if votes == nil || votes.Total == 0 {
			return "Closed"
		}
		if !quorumReached(votes, quorum) {
			return "Quorum not reached"
		}
		if votes.For > votes.Against {
			return "Passed"
		}
		return "Defeated"
	}
	return capitalize(raw)
}

func statusWithQuorum(label string, votes *VoteStats, quorum *float64) string {
	if !quorumReached(votes, quorum) {
		return "Quorum not reached"
	}
	return label
}

// quorumReached is true when no quorum applies or the total vote weight
// meets it. A nil VoteStats with a quorum set counts as not reached.
func quorumReached(votes *VoteStats, quorum *float64) bool {
	if quorum == nil || *quorum <= 0 {
		return true
	}
	if votes == nil {
		return false
	}
	return votes.Total >= *quorum
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DeriveStage infers the governance stage from the source and title.
// Aave's process tags snapshot proposals with [TEMP CHECK] and [ARFC]
// title markers; everything on-chain is an AIP.
func DeriveStage(source Source, title string) Stage {
	if source == SourceAave || source == SourceTally {
		return StageAIP
	}
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "temp check"), strings.Contains(t, "temp-check"), strings.Contains(t, "[tempcheck]"):
		return StageTempCheck
	case strings.Contains(t, "arfc"):
		return StageARFC
	case strings.Contains(t, "[aip"):
		return StageAIP
	}
	return StageSnapshot
}
