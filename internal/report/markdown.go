package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
)

// Input is what the Markdown report is built from.
type Input struct {
	URL            string
	PageInfo       detection.PageInfo
	Issues         []detection.Issue
	Summary        detection.Summary
	ScreenshotPath string
	AnnotatedPath  string
}

var severityHeaders = map[detection.Severity]string{
	detection.SeverityCritical: "🔴 Critical",
	detection.SeveritySerious:  "🟠 Serious",
	detection.SeverityModerate: "🔵 Moderate",
	detection.SeverityMinor:    "🟡 Minor",
}

// WriteMarkdown writes a human-readable accessibility report.
func WriteMarkdown(w io.Writer, in Input) error {
	md := markdown.NewMarkdown(w)

	writeHeader(md, in)
	writeSummary(md, in.Summary)
	writeIssues(md, in.Issues)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Findings are heuristic candidates from screenshot analysis; confirm them with manual testing.*")

	return md.Build()
}

func writeHeader(md *markdown.Markdown, in Input) {
	md.H1("Accessibility Scan Report")
	md.PlainText("")

	rows := [][]string{
		{"URL", "`" + in.URL + "`"},
		{"Title", orDash(in.PageInfo.Title)},
		{"Language", orDash(in.PageInfo.Lang)},
		{"Viewport", fmt.Sprintf("%dx%d (page height %d)", in.PageInfo.Viewport.Width, in.PageInfo.Viewport.Height, in.PageInfo.Viewport.ScrollHeight)},
		{"Elements analyzed", strconv.Itoa(in.Summary.ElementsAnalyzed)},
	}
	if in.ScreenshotPath != "" {
		rows = append(rows, []string{"Screenshot", "`" + in.ScreenshotPath + "`"})
	}
	if in.AnnotatedPath != "" {
		rows = append(rows, []string{"Annotated screenshot", "`" + in.AnnotatedPath + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSummary(md *markdown.Markdown, s detection.Summary) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(detection.Severities)+1)
	for _, sev := range detection.Severities {
		rows = append(rows, []string{severityHeaders[sev], strconv.Itoa(s.Count(sev))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(s.Total) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Issues by Severity"),
			piechart.WithShowData(true),
		)
		for _, sev := range detection.Severities {
			if n := s.Count(sev); n > 0 {
				chart.LabelAndIntValue(strings.ToUpper(string(sev[:1]))+string(sev[1:]), uint64(n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case s.Critical > 0:
		md.Cautionf("%d critical issue(s) block users from reading or operating the page.", s.Critical)
	case s.Serious > 0:
		md.Warningf("%d serious issue(s) should be fixed to meet WCAG 2.1 AA.", s.Serious)
	case s.Total > 0:
		md.Note("Only minor or moderate issues detected.")
	default:
		md.Tip("No accessibility issues detected by the visual heuristics.")
	}
	md.PlainText("")
}

func writeIssues(md *markdown.Markdown, issues []detection.Issue) {
	md.H2("Issues")
	md.PlainText("")

	if len(issues) == 0 {
		md.PlainText("No issues detected.")
		md.PlainText("")
		return
	}

	for _, sev := range detection.Severities {
		group := make([]int, 0)
		for i, issue := range issues {
			if issue.Severity == sev {
				group = append(group, i)
			}
		}
		if len(group) == 0 {
			continue
		}

		md.H3(severityHeaders[sev])
		md.PlainText("")

		rows := make([][]string, 0, len(group))
		for _, i := range group {
			issue := issues[i]
			rows = append(rows, []string{
				"#" + strconv.Itoa(i+1),
				issue.ID,
				string(issue.Rule),
				strings.Join(issue.WCAG, ", "),
				fmt.Sprintf("%d,%d %dx%d", issue.BBox.X, issue.BBox.Y, issue.BBox.W, issue.BBox.H),
				measurement(issue),
				elementName(issue),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "ID", "Rule", "WCAG", "Box", "Measurement", "Element"},
			Rows:   rows,
		})
		md.PlainText("")

		for _, i := range group {
			md.Details(issues[i].ID, issueDetails(issues[i]))
		}
		md.PlainText("")
	}
}

func measurement(issue detection.Issue) string {
	switch d := issue.Details.(type) {
	case *detection.LowContrastDetails:
		return fmt.Sprintf("%.2f:1 (%s on %s)", d.ContrastRatio, d.ForegroundColor.Hex(), d.BackgroundColor.Hex())
	case *detection.TargetSizeDetails:
		return fmt.Sprintf("%dx%dpx, %s", d.CurrentSize.Width, d.CurrentSize.Height, d.WCAGLevel)
	}
	return "-"
}

func elementName(issue detection.Issue) string {
	if issue.Details == nil {
		return "-"
	}
	el := issue.Details.ElementInfo()
	if el == nil {
		return "-"
	}
	if el.Selector != "" {
		return "`" + el.Selector + "`"
	}
	return orDash(el.Tag)
}

func issueDetails(issue detection.Issue) string {
	var b strings.Builder
	b.WriteString(issue.Message)

	var recommendation string
	var howTo []string
	switch d := issue.Details.(type) {
	case *detection.LowContrastDetails:
		recommendation, howTo = d.Recommendation, d.HowToFix
	case *detection.TargetSizeDetails:
		recommendation, howTo = d.Recommendation, d.HowToFix
	}

	if recommendation != "" {
		b.WriteString("\n\n**Recommendation:** " + recommendation)
	}
	if len(howTo) > 0 {
		b.WriteString("\n\n**How to fix:**\n")
		for _, step := range howTo {
			b.WriteString("\n- " + step)
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
