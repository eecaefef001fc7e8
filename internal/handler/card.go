package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"govcards/pkg/gov"

	"github.com/gin-gonic/gin"
)

// The card fragment the Discourse theme injects next to a proposal link.
var cardTmpl = template.Must(template.New("card").Parse(`<div class="gov-card gov-card--{{.StatusClass}}">
  <div class="gov-card__header">
    <span class="gov-card__stage">{{.Stage}}</span>
    <span class="gov-card__status">{{.Status}}</span>
  </div>
  <a class="gov-card__title" href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a>
{{- if .Votes}}
  <div class="gov-card__votes">
    <div class="gov-card__bar">
      <span class="gov-card__bar-for" style="width: {{printf "%.2f" .Votes.ForPct}}%"></span>
      <span class="gov-card__bar-against" style="width: {{printf "%.2f" .Votes.AgainstPct}}%"></span>
    </div>
    <div class="gov-card__counts">
      <span>For {{printf "%.2f" .Votes.ForPct}}%</span>
      <span>Against {{printf "%.2f" .Votes.AgainstPct}}%</span>
{{- if gt .Votes.Abstain 0.0}}
      <span>Abstain {{printf "%.2f" .Votes.AbstainPct}}%</span>
{{- end}}
      <span>{{.Votes.Voters}} voters</span>
    </div>
  </div>
{{- end}}
{{- if .QuorumText}}
  <div class="gov-card__quorum">{{.QuorumText}}</div>
{{- end}}
{{- if .TimeLeftText}}
  <div class="gov-card__time-left">{{.TimeLeftText}}</div>
{{- end}}
</div>
`))

const failedCard = `<div class="gov-card gov-card--error">Failed to load proposal data</div>`

func (h *ProposalHandler) GetCard(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	p, err := h.resolver.Resolve(c.Request.Context(), url)
	if err != nil {
		slog.Error("error resolving proposal for card", "url", url, "error", err)
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(failedCard))
		return
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, newCardView(p)); err != nil {
		slog.Error("error rendering card", "url", url, "error", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(failedCard))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type cardView struct {
	Title        string
	URL          string
	Status       string
	StatusClass  string
	Stage        string
	Votes        *gov.VoteStats
	QuorumText   string
	TimeLeftText string
}

func newCardView(p *gov.Proposal) cardView {
	v := cardView{
		Title:       p.Title,
		URL:         p.URL,
		Status:      p.Status,
		StatusClass: statusClass(p.Status),
		Stage:       stageLabel(p.Stage),
		Votes:       p.Votes,
	}
	if p.Quorum != nil {
		v.QuorumText = fmt.Sprintf("Quorum: %.0f", *p.Quorum)
	}
	if p.DaysLeft != nil && p.HoursLeft != nil {
		v.TimeLeftText = fmt.Sprintf("%dd %dh left", *p.DaysLeft, *p.HoursLeft)
	}
	return v
}

func statusClass(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), " ", "-")
}

func stageLabel(stage gov.Stage) string {
	switch stage {
	case gov.StageTempCheck:
		return "Temp Check"
	case gov.StageARFC:
		return "ARFC"
	case gov.StageAIP:
		return "AIP"
	}
	return "Snapshot"
}
