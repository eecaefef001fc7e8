package gov

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestNewVoteStatsPercentages(t *testing.T) {
	v := NewVoteStats(70, 30, 0, 25)

	assert.Equal(t, 100.0, v.Total)
	assert.Equal(t, 70.0, v.ForPct)
	assert.Equal(t, 30.0, v.AgainstPct)
	assert.Equal(t, 0.0, v.AbstainPct)
	assert.Equal(t, 25, v.Voters)
}

func TestNewVoteStatsZeroTotal(t *testing.T) {
	v := NewVoteStats(0, 0, 0, 0)

	assert.Equal(t, 0.0, v.Total)
	assert.Equal(t, 0.0, v.ForPct)
	assert.Equal(t, 0.0, v.AgainstPct)
	assert.Equal(t, 0.0, v.AbstainPct)
}

func TestNewVoteStatsBoundsAndSum(t *testing.T) {
	cases := [][3]float64{
		{1, 1, 1},
		{0.1, 0.2, 0.7},
		{123456.78, 98765.43, 11111.11},
		{1, 0, 0},
		{33335, 33335, 33330},
		{33335, 66665, 0},
	}

	for _, c := range cases {
		v := NewVoteStats(c[0], c[1], c[2], 0)

		for _, p := range []float64{v.ForPct, v.AgainstPct, v.AbstainPct} {
			if p < 0 || p > 100 {
				t.Fatalf("percentage %v out of range for input %v", p, c)
			}
		}
		sum := v.ForPct + v.AgainstPct + v.AbstainPct
		if sum > 100+1e-9 {
			t.Fatalf("percentages sum to %v > 100 for input %v", sum, c)
		}
	}
}

func TestNewVoteStatsThirds(t *testing.T) {
	v := NewVoteStats(1, 1, 1, 3)

	assert.Equal(t, 33.33, v.ForPct)
	assert.Equal(t, 33.33, v.AgainstPct)
	assert.Equal(t, 33.34, v.AbstainPct)
}

func TestSplitChoiceVotesByName(t *testing.T) {
	forV, against, abstain := SplitChoiceVotes(
		[]string{"YES - deploy", "NO - do nothing", "Abstain"},
		[]float64{500, 120, 30},
	)

	assert.Equal(t, 500.0, forV)
	assert.Equal(t, 120.0, against)
	assert.Equal(t, 30.0, abstain)
}

func TestSplitChoiceVotesByPosition(t *testing.T) {
	forV, against, abstain := SplitChoiceVotes(
		[]string{"Option A", "Option B", "Option C"},
		[]float64{10, 20, 30},
	)

	assert.Equal(t, 10.0, forV)
	assert.Equal(t, 20.0, against)
	assert.Equal(t, 30.0, abstain)
}

func TestSplitChoiceVotesLengthMismatch(t *testing.T) {
	forV, against, abstain := SplitChoiceVotes(
		[]string{"For", "Against", "Abstain"},
		[]float64{42},
	)

	assert.Equal(t, 42.0, forV)
	assert.Equal(t, 0.0, against)
	assert.Equal(t, 0.0, abstain)
}

func TestParseEndTimeEncodings(t *testing.T) {
	want := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	seconds := ParseEndTime(float64(want.Unix()))
	millis := ParseEndTime(float64(want.UnixMilli()))
	iso := ParseEndTime(want.Format(time.RFC3339))
	numericString := ParseEndTime("1788264000")

	assert.NotEqual(t, nil, seconds)
	assert.NotEqual(t, nil, millis)
	assert.NotEqual(t, nil, iso)
	assert.NotEqual(t, nil, numericString)

	assert.Equal(t, want, seconds.UTC())
	assert.Equal(t, want, millis.UTC())
	assert.Equal(t, want, iso.UTC())
	assert.Equal(t, want.Unix(), numericString.Unix())
}

func TestParseEndTimeInvalid(t *testing.T) {
	for _, raw := range []any{nil, "", "not a date", float64(0), float64(-5), struct{}{}} {
		got := ParseEndTime(raw)
		if got != nil {
			t.Fatalf("ParseEndTime(%v) = %v, want nil", raw, got)
		}
	}
}

func TestTimeLeftConsistentAcrossEncodings(t *testing.T) {
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	end := now.Add(72*time.Hour + 5*time.Hour)

	fromSeconds := ParseEndTime(float64(end.Unix()))
	fromMillis := ParseEndTime(float64(end.UnixMilli()))
	fromISO := ParseEndTime(end.Format(time.RFC3339))

	for _, parsed := range []*time.Time{fromSeconds, fromMillis, fromISO} {
		days, hours := TimeLeft(parsed, now)
		assert.Equal(t, 3, *days)
		assert.Equal(t, 5, *hours)
	}
}

func TestTimeLeftNilAndPast(t *testing.T) {
	now := time.Now()

	days, hours := TimeLeft(nil, now)
	if days != nil || hours != nil {
		t.Fatal("expected nil days/hours for nil end time")
	}

	past := now.Add(-48 * time.Hour)
	days, hours = TimeLeft(&past, now)
	assert.Equal(t, 0, *days)
	assert.Equal(t, 0, *hours)
}

func TestDeriveStatusLabels(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"active", "Active"},
		{"pending", "Pending"},
		{"executed", "Executed"},
		{"canceled", "Canceled"},
		{"expired", "Expired"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStatus(tt.raw, nil, nil))
	}
}

func TestDeriveStatusQueuedOverride(t *testing.T) {
	quorum := 100.0
	winning := NewVoteStats(150, 40, 10, 0)
	losing := NewVoteStats(40, 150, 10, 0)
	belowQuorum := NewVoteStats(50, 10, 0, 0)

	assert.Equal(t, "Pending execution", DeriveStatus("queued", winning, &quorum))
	assert.Equal(t, "Queued", DeriveStatus("queued", losing, &quorum))
	assert.Equal(t, "Queued", DeriveStatus("queued", belowQuorum, &quorum))
	assert.Equal(t, "Pending execution", DeriveStatus("queued", winning, nil))
}

func TestDeriveStatusDefeatedOverride(t *testing.T) {
	quorum := 1000.0
	belowQuorum := NewVoteStats(300, 400, 0, 0)
	aboveQuorum := NewVoteStats(400, 700, 0, 0)

	assert.Equal(t, "Quorum not reached", DeriveStatus("defeated", belowQuorum, &quorum))
	assert.Equal(t, "Defeated", DeriveStatus("defeated", aboveQuorum, &quorum))
	assert.Equal(t, "Defeated", DeriveStatus("defeated", aboveQuorum, nil))
}

func TestDeriveStatusClosedOutcome(t *testing.T) {
	quorum := 100.0
	passed := NewVoteStats(150, 40, 10, 0)
	rejected := NewVoteStats(40, 150, 10, 0)
	thin := NewVoteStats(30, 20, 0, 0)

	assert.Equal(t, "Passed", DeriveStatus("closed", passed, &quorum))
	assert.Equal(t, "Defeated", DeriveStatus("closed", rejected, &quorum))
	assert.Equal(t, "Quorum not reached", DeriveStatus("closed", thin, &quorum))
	assert.Equal(t, "Closed", DeriveStatus("closed", nil, &quorum))
}

func TestDeriveStatusIdempotent(t *testing.T) {
	quorum := 100.0
	votes := NewVoteStats(150, 40, 10, 0)
	thin := NewVoteStats(30, 20, 0, 0)

	cases := []struct {
		raw    string
		votes  *VoteStats
		quorum *float64
	}{
		{"queued", votes, &quorum},
		{"defeated", thin, &quorum},
		{"closed", votes, &quorum},
		{"active", nil, nil},
		{"executed", nil, nil},
	}

	for _, c := range cases {
		once := DeriveStatus(c.raw, c.votes, c.quorum)
		twice := DeriveStatus(once, c.votes, c.quorum)
		assert.Equal(t, once, twice)
	}
}

func TestDeriveStage(t *testing.T) {
	tests := []struct {
		source Source
		title  string
		want   Stage
	}{
		{SourceSnapshot, "[TEMP CHECK] Onboard wstETH", StageTempCheck},
		{SourceSnapshot, "[ARFC] Raise supply caps", StageARFC},
		{SourceSnapshot, "[AIP-42] Activate emission", StageAIP},
		{SourceSnapshot, "Gauge weights for next epoch", StageSnapshot},
		{SourceAave, "[ARFC] title ignored for on-chain", StageAIP},
		{SourceTally, "anything", StageAIP},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStage(tt.source, tt.title))
	}
}
