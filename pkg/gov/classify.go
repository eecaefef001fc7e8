package gov

import "regexp"

// Ref identifies one proposal on one source platform.
type Ref struct {
	Source Source
	Space  string // snapshot space or tally governor slug, empty for aave
	ID     string
}

var (
	snapshotPattern = regexp.MustCompile(`(?i)snapshot\.(?:org|box)/#/([\w.:-]+)/proposal/([\w-]+)`)

	aavePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)app\.aave\.com/governance(?:/v3)?/proposal/?\?(?:[\w=&-]*&)?proposalId=(\d+)`),
		regexp.MustCompile(`(?i)app\.aave\.com/governance/proposal/(\d+)`),
		regexp.MustCompile(`(?i)vote\.onaave\.com/proposal/?\?(?:[\w=&-]*&)?proposalId=(\d+)`),
	}

	tallyPattern = regexp.MustCompile(`(?i)tally\.xyz/gov/([\w.-]+)/proposal/(\d+)`)
)

// Classify maps a raw URL string onto exactly one source platform and
// extracts the identifying tuple. Patterns are tried in a fixed priority
// order and the first match wins. Anything unmatched is SourceNone, never
// an error.
func Classify(raw string) Ref {
	if m := snapshotPattern.FindStringSubmatch(raw); m != nil {
		return Ref{Source: SourceSnapshot, Space: m[1], ID: m[2]}
	}
	for _, p := range aavePatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return Ref{Source: SourceAave, ID: m[1]}
		}
	}
	if m := tallyPattern.FindStringSubmatch(raw); m != nil {
		return Ref{Source: SourceTally, Space: m[1], ID: m[2]}
	}
	return Ref{Source: SourceNone}
}
