package gov

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestClassifySnapshot(t *testing.T) {
	ref := Classify("https://snapshot.org/#/aave.eth/proposal/0xabc")

	assert.Equal(t, SourceSnapshot, ref.Source)
	assert.Equal(t, "aave.eth", ref.Space)
	assert.Equal(t, "0xabc", ref.ID)
}

func TestClassifySnapshotBox(t *testing.T) {
	ref := Classify("https://snapshot.box/#/s:aavedao.eth/proposal/0x1f2e3d")

	assert.Equal(t, SourceSnapshot, ref.Source)
	assert.Equal(t, "s:aavedao.eth", ref.Space)
	assert.Equal(t, "0x1f2e3d", ref.ID)
}

func TestClassifyAave(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
	}{
		{"query form", "https://app.aave.com/governance/proposal/?proposalId=345", "345"},
		{"v3 query form", "https://app.aave.com/governance/v3/proposal/?proposalId=42", "42"},
		{"path form", "https://app.aave.com/governance/proposal/118", "118"},
		{"vote.onaave.com", "https://vote.onaave.com/proposal/?proposalId=99", "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Classify(tt.url)
			assert.Equal(t, SourceAave, ref.Source)
			assert.Equal(t, tt.id, ref.ID)
			assert.Equal(t, "", ref.Space)
		})
	}
}

func TestClassifyTally(t *testing.T) {
	ref := Classify("https://www.tally.xyz/gov/uniswap/proposal/77")

	assert.Equal(t, SourceTally, ref.Source)
	assert.Equal(t, "uniswap", ref.Space)
	assert.Equal(t, "77", ref.ID)
}

func TestClassifyNone(t *testing.T) {
	tests := []string{
		"",
		"not a url at all",
		"https://example.com/proposal/12",
		"https://snapshot.org/#/aave.eth/",  // no proposal segment
		"https://app.aave.com/markets",      // aave, but not governance
		"https://www.tally.xyz/gov/uniswap", // tally, but no proposal id
		"https://forum.aave.com/t/arfc-something/12345", // forum topic, not a proposal
	}

	for _, url := range tests {
		ref := Classify(url)
		assert.Equal(t, SourceNone, ref.Source)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	url := "https://snapshot.org/#/aave.eth/proposal/0xabc"

	first := Classify(url)
	second := Classify(url)

	assert.Equal(t, first, second)
}
