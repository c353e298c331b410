package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ontelworks/copscan/internal/store"
)

type bodyData struct {
	Status      string
	StartedET   string
	EndedET     string
	Duration    string
	NewCount    int
	ChangeStr   string
	ChangeColor string
	Totals      store.Totals
	TypeCounts  []store.TypeCount
}

var bodyTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"comma": commaInt,
}).Parse(`<html><body style="font-family:Arial,sans-serif;margin:0;padding:0;">
<div style="background-color:#2e7d32;color:white;padding:16px 24px;border-radius:4px 4px 0 0;">
  <h2 style="margin:0;">Gmail Package Scraper: {{.Status}}</h2>
</div>
<div style="padding:16px 24px;">

  <table style="margin-bottom:16px;">
    <tr><td style="padding:2px 16px 2px 0;font-weight:bold;">Started:</td><td>{{.StartedET}}</td></tr>
    <tr><td style="padding:2px 16px 2px 0;font-weight:bold;">Ended:</td><td>{{.EndedET}}</td></tr>
    <tr><td style="padding:2px 16px 2px 0;font-weight:bold;">Duration:</td><td>{{.Duration}}</td></tr>
  </table>

  <h3 style="margin-top:24px;margin-bottom:8px;">Pipeline Details</h3>
  <table style="border-collapse:collapse;width:100%;">
    <thead>
      <tr style="background-color:#f5f5f5;">
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:left;">Step</th>
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:left;">Status</th>
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:left;">Details</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">Gmail Scrape</td>
        <td style="padding:6px 12px;border:1px solid #ddd;color:#2e7d32;font-weight:bold;">SUCCESS</td>
        <td style="padding:6px 12px;border:1px solid #ddd;">{{.NewCount}} new emails fetched</td>
      </tr>
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">Package Parser</td>
        <td style="padding:6px 12px;border:1px solid #ddd;color:#2e7d32;font-weight:bold;">SUCCESS</td>
        <td style="padding:6px 12px;border:1px solid #ddd;">{{.NewCount}} emails parsed</td>
      </tr>
    </tbody>
  </table>

  <h3 style="margin-top:24px;margin-bottom:8px;">Row Counts</h3>
  <table style="border-collapse:collapse;">
    <thead>
      <tr style="background-color:#f5f5f5;">
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:left;">Table</th>
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:right;">Total</th>
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:right;">New</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">stg_emails</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;">{{comma .Totals.StagedEmails}}</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;color:{{.ChangeColor}};font-weight:bold;">{{.ChangeStr}}</td>
      </tr>
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">stg_cop_emails</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;">{{comma .Totals.ParsedRecords}}</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;color:{{.ChangeColor}};font-weight:bold;">{{.ChangeStr}}</td>
      </tr>
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">v_cop_emails (deduped)</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;">{{comma .Totals.DedupedRecords}}</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;">-</td>
      </tr>
    </tbody>
  </table>

  <h3 style="margin-top:24px;margin-bottom:8px;">Records by Package Type</h3>
  <table style="border-collapse:collapse;">
    <thead>
      <tr style="background-color:#f5f5f5;">
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:left;">Package Type</th>
        <th style="padding:6px 12px;border:1px solid #ddd;text-align:right;">Count</th>
      </tr>
    </thead>
    <tbody>
{{- range .TypeCounts}}
      <tr>
        <td style="padding:6px 12px;border:1px solid #ddd;">{{.PackageType}}</td>
        <td style="padding:6px 12px;border:1px solid #ddd;text-align:right;">{{.Count}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>

</div>
</body></html>
`))

func renderBody(stats RunStats) (string, error) {
	data := bodyData{
		Status:      "SUCCESS",
		StartedET:   stats.Started.In(easternTime).Format("2006-01-02 15:04:05 EST"),
		EndedET:     stats.Ended.In(easternTime).Format("2006-01-02 15:04:05 EST"),
		Duration:    formatDuration(stats.Ended.Sub(stats.Started)),
		NewCount:    stats.NewEmails,
		ChangeStr:   "0",
		ChangeColor: "#888",
		Totals:      stats.Totals,
		TypeCounts:  stats.TypeCounts,
	}
	if stats.NewEmails > 0 {
		data.ChangeStr = fmt.Sprintf("+%d", stats.NewEmails)
		data.ChangeColor = "#2e7d32"
	}

	var sb strings.Builder
	if err := bodyTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	if secs >= 60 {
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}

func commaInt(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
