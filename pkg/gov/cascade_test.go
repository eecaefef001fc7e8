package gov

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestDiscoverLinksExplicitURLs(t *testing.T) {
	body := `## Motivation
The Temp Check (https://snapshot.org/#/aave.eth/proposal/0xaaa) passed with 98% support.
On-chain vote: https://app.aave.com/governance/proposal/?proposalId=201`

	links := DiscoverLinks(body)

	assert.Equal(t, 2, len(links))
	assert.Equal(t, StageSnapshot, links[0].Stage)
	assert.Equal(t, "https://snapshot.org/#/aave.eth/proposal/0xaaa", links[0].URL)
	assert.Equal(t, StageAIP, links[1].Stage)
	assert.Equal(t, "https://app.aave.com/governance/proposal/?proposalId=201", links[1].URL)
}

func TestDiscoverLinksAIPNumberFallback(t *testing.T) {
	body := "This proposal implements AIP #118 as approved by the community."

	links := DiscoverLinks(body)

	assert.Equal(t, 1, len(links))
	assert.Equal(t, StageAIP, links[0].Stage)
	assert.Equal(t, "https://app.aave.com/governance/proposal/?proposalId=118", links[0].URL)
}

func TestDiscoverLinksFallbackSkippedWhenAIPURLPresent(t *testing.T) {
	body := `Implements AIP #42: https://app.aave.com/governance/proposal/42`

	links := DiscoverLinks(body)

	assert.Equal(t, 1, len(links))
	assert.Equal(t, "https://app.aave.com/governance/proposal/42", links[0].URL)
}

func TestDiscoverLinksDeduplicates(t *testing.T) {
	body := `See https://snapshot.org/#/aave.eth/proposal/0xaaa and again
https://snapshot.org/#/aave.eth/proposal/0xaaa for context.`

	links := DiscoverLinks(body)

	assert.Equal(t, 1, len(links))
}

func TestDiscoverLinksIgnoresUnrelatedURLs(t *testing.T) {
	body := "Read more at https://docs.aave.com/risk and https://example.com/post"

	links := DiscoverLinks(body)

	assert.Equal(t, 0, len(links))
}
