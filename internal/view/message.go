package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/mockdata"
)

const barWidth = 30

// Renderer turns chat messages and dashboards into terminal output.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer builds a renderer wrapping at width. style is a glamour
// standard style name; empty picks one from the terminal.
func NewRenderer(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{md: md}, nil
}

func (r *Renderer) RenderMessage(msg core.Message) (string, error) {
	return r.md.Render(MessageMarkdown(msg))
}

func (r *Renderer) RenderDashboard(a mockdata.Analytics) (string, error) {
	return r.md.Render(DashboardMarkdown(a))
}

func (r *Renderer) RenderMarkdown(md string) (string, error) {
	return r.md.Render(md)
}

// MessageMarkdown lays out a message and its payload as markdown.
func MessageMarkdown(msg core.Message) string {
	var b strings.Builder
	who := "Assistant"
	if msg.Author == core.AuthorUser {
		who = "You"
	}
	fmt.Fprintf(&b, "**%s** · _%s_\n\n", who, msg.Timestamp.Format("15:04:05"))
	b.WriteString(msg.Text)
	b.WriteString("\n")

	switch p := msg.Payload.(type) {
	case core.TablePayload:
		b.WriteString("\n#### Data Analysis Results\n\n")
		b.WriteString(markdownTable(p.Columns, p.Rows))
	case core.ChartPayload:
		b.WriteString("\n#### Data Visualization\n\n")
		b.WriteString(chartBlock(p))
	case core.SummaryPayload:
		fmt.Fprintf(&b, "\n#### %s\n\n%s\n\n", p.Title, p.Text)
		fmt.Fprintf(&b, "_Source: %s · Confidence: %d%%_\n", p.Source, int(math.Round(p.Confidence*100)))
	case core.ImagePayload:
		fmt.Fprintf(&b, "\n![%s](%s)\n\n_%s_\n", p.Caption, p.URL, p.Caption)
	}
	return b.String()
}

// DashboardMarkdown renders the analytics fixtures.
func DashboardMarkdown(a mockdata.Analytics) string {
	var b strings.Builder
	b.WriteString("# Analytics Dashboard\n\n")

	rows := make([][]string, 0, len(a.Stats))
	for _, s := range a.Stats {
		rows = append(rows, []string{s.Title, s.Value, s.Change})
	}
	b.WriteString(markdownTable([]string{"Metric", "Value", "Change"}, rows))

	b.WriteString("\n## Daily Query Volume\n\n")
	volume := core.ChartPayload{Kind: core.ChartBar}
	for _, q := range a.QueryVolume {
		volume.Series = append(volume.Series, core.ChartPoint{Label: q.Name, Value: float64(q.Queries)})
	}
	b.WriteString(chartBlock(volume))

	b.WriteString("\n## Response Times by Query Type\n\n")
	rows = rows[:0]
	for _, r := range a.ResponseTimes {
		rows = append(rows, []string{r.Name, fmt.Sprintf("%.1fs", r.Seconds)})
	}
	b.WriteString(markdownTable([]string{"Query Type", "Avg Time"}, rows))

	b.WriteString("\n## User Roles Distribution\n\n")
	rows = rows[:0]
	for _, r := range a.RoleDistribution {
		rows = append(rows, []string{r.Name, fmt.Sprintf("%d%%", r.Value)})
	}
	b.WriteString(markdownTable([]string{"Role", "Share"}, rows))
	return b.String()
}

func markdownTable(columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeCells(columns), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	return b.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// chartBlock draws a series as horizontal bars scaled to the largest value.
func chartBlock(p core.ChartPayload) string {
	if len(p.Series) == 0 {
		return "_no data_\n"
	}
	maxValue, labelWidth := 0.0, 0
	for _, pt := range p.Series {
		maxValue = math.Max(maxValue, pt.Value)
		if n := len([]rune(pt.Label)); n > labelWidth {
			labelWidth = n
		}
	}

	var b strings.Builder
	b.WriteString("```\n")
	for _, pt := range p.Series {
		n := 0
		if maxValue > 0 && pt.Value > 0 {
			n = int(math.Round(pt.Value / maxValue * barWidth))
		}
		fmt.Fprintf(&b, "%-*s %s %s\n", labelWidth, pt.Label, strings.Repeat("█", n), formatValue(pt.Value))
	}
	b.WriteString("```\n")
	if p.Kind != "" {
		fmt.Fprintf(&b, "\n_%s chart_\n", p.Kind)
	}
	return b.String()
}

// formatValue prints integers with thousands separators and anything else
// with one decimal.
func formatValue(v float64) string {
	if v != math.Trunc(v) {
		return fmt.Sprintf("%.1f", v)
	}
	s := fmt.Sprintf("%d", int64(math.Abs(v)))
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if v < 0 {
		s = "-" + s
	}
	return s
}
