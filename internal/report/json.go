package report

import (
	"encoding/json"
	"io"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
)

// Document is the JSON report of one scan.
type Document struct {
	URL              string             `json:"url"`
	PageInfo         detection.PageInfo `json:"page_info"`
	Issues           []detection.Issue  `json:"issues"`
	Summary          detection.Summary  `json:"summary"`
	ElementsAnalyzed int                `json:"elements_analyzed"`
	ScreenshotPath   string             `json:"screenshot_path"`
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Issues == nil {
		doc.Issues = []detection.Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
