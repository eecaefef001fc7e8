package gov

import (
	"fmt"
	"regexp"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	aipRefPattern = regexp.MustCompile(`(?i)\bAIP[\s#-]*(\d+)\b`)
)

// DiscoverLinks scans free-text proposal body for references to related
// governance stages: explicit Snapshot/Aave/Tally URLs first, then a bare
// "AIP #<n>" textual reference, for which the canonical app.aave.com URL
// is synthesized. Duplicate targets are dropped, first occurrence wins.
func DiscoverLinks(body string) []StageLink {
	var links []StageLink
	seen := make(map[string]bool)

	add := func(url string, stage Stage) {
		if !seen[url] {
			seen[url] = true
			links = append(links, StageLink{Stage: stage, URL: url})
		}
	}

	sawAIP := false
	for _, url := range urlPattern.FindAllString(body, -1) {
		ref := Classify(url)
		switch ref.Source {
		case SourceSnapshot:
			add(url, StageSnapshot)
		case SourceAave:
			add(url, StageAIP)
			sawAIP = true
		case SourceTally:
			add(url, StageAIP)
			sawAIP = true
		}
	}

	if !sawAIP {
		if m := aipRefPattern.FindStringSubmatch(body); m != nil {
			add(fmt.Sprintf("https://app.aave.com/governance/proposal/?proposalId=%s", m[1]), StageAIP)
		}
	}

	return links
}
