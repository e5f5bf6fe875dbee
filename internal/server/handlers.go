package server

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "a11y_scan_submit").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		logging.From(ctx).Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Scans
	case "a11y_scan_submit":
		return s.handleScanSubmit(ctx, args)
	case "a11y_scan_status":
		return s.handleScanStatus(ctx, args)
	case "a11y_scan_wait":
		return s.handleScanWait(ctx, args)
	case "a11y_scan_list":
		return s.handleScanList(ctx, args)

	// Offline analysis
	case "a11y_analyze_image":
		return s.handleAnalyzeImage(ctx, args)
	case "a11y_contrast_ratio":
		return s.handleContrastRatio(args)
	case "a11y_issue_crop":
		return s.handleIssueCrop(ctx, args)

	default:
		return nil, goerr.New("unknown tool", goerr.V("tool", name))
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Scan Handlers ===

type scanSubmitArgs struct {
	URL string `json:"url"`
}

type scanSubmitResult struct {
	ScanID string      `json:"scanId"`
	URL    string      `json:"url"`
	Status scan.Status `json:"status"`
}

func (s *Server) handleScanSubmit(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanSubmitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	h, err := s.orch.Submit(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	return &scanSubmitResult{ScanID: h.ID(), URL: a.URL, Status: scan.StatusQueued}, nil
}

type scanIDArgs struct {
	ScanID string `json:"scanId"`
}

func (s *Server) handleScanStatus(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.orch.Get(ctx, a.ScanID)
}

type scanWaitArgs struct {
	ScanID         string `json:"scanId"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type scanWaitResult struct {
	Scan     *scan.Scan `json:"scan"`
	TimedOut bool       `json:"timedOut"`
}

func (s *Server) handleScanWait(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanWaitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TimeoutSeconds <= 0 {
		a.TimeoutSeconds = 120
	}
	wait := time.Duration(a.TimeoutSeconds) * time.Second
	if wait > s.maxWait {
		wait = s.maxWait
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	got, err := s.orch.Wait(waitCtx, a.ScanID)
	if errors.Is(err, context.DeadlineExceeded) {
		current, gerr := s.orch.Get(ctx, a.ScanID)
		if gerr != nil {
			return nil, gerr
		}
		return &scanWaitResult{Scan: current, TimedOut: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &scanWaitResult{Scan: got}, nil
}

type scanListArgs struct {
	Limit int `json:"limit"`
}

type scanListEntry struct {
	ID        string            `json:"id"`
	URL       string            `json:"url"`
	Status    scan.Status       `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Summary   detection.Summary `json:"summary"`
	Error     string            `json:"error,omitempty"`
}

func (s *Server) handleScanList(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = 20
	}

	scans, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(scans) > a.Limit {
		scans = scans[:a.Limit]
	}

	entries := make([]scanListEntry, 0, len(scans))
	for _, sc := range scans {
		e := scanListEntry{
			ID:        sc.ID,
			URL:       sc.URL,
			Status:    sc.Status,
			CreatedAt: sc.CreatedAt,
			UpdatedAt: sc.UpdatedAt,
		}
		if sc.Result != nil {
			e.Summary = sc.Result.Summary
		}
		if sc.Error != nil {
			e.Error = sc.Error.Message
		}
		entries = append(entries, e)
	}
	return map[string]interface{}{"scans": entries, "count": len(entries)}, nil
}

// === Offline Analysis Handlers ===

type analyzeImageArgs struct {
	Path         string `json:"path"`
	ElementsPath string `json:"elementsPath"`
	URL          string `json:"url"`
}

func (s *Server) handleAnalyzeImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a analyzeImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, goerr.New("path is required")
	}

	data, err := os.ReadFile(a.Path) // #nosec G304 -- caller-chosen screenshot
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read screenshot", goerr.V("path", a.Path))
	}

	elements, err := LoadElements(a.ElementsPath)
	if err != nil {
		return nil, err
	}

	url := a.URL
	if url == "" {
		url = "file://" + a.Path
	}
	return s.orch.AnalyzeScreenshot(ctx, data, elements, url)
}

// LoadElements reads a JSON array of page elements. An empty path yields no elements.
func LoadElements(path string) ([]detection.PageElement, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- caller-chosen element list
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read elements", goerr.V("path", path))
	}
	var elements []detection.PageElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, goerr.Wrap(err, "failed to parse elements", goerr.V("path", path))
	}
	return elements, nil
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type contrastRatioArgs struct {
	Foreground      string `json:"foreground"`
	Background      string `json:"background"`
	Path            string `json:"path"`
	ForegroundPoint *point `json:"foregroundPoint,omitempty"`
	BackgroundPoint *point `json:"backgroundPoint,omitempty"`
}

type contrastRatioResult struct {
	Ratio           float64          `json:"contrast_ratio"`
	Foreground      imaging.RGBColor `json:"foreground_color"`
	Background      imaging.RGBColor `json:"background_color"`
	ForegroundHex   string           `json:"foreground_hex"`
	BackgroundHex   string           `json:"background_hex"`
	WCAGAAPass      bool             `json:"wcag_aa_pass"`
	WCAGAAAPass     bool             `json:"wcag_aaa_pass"`
	WCAGAALargePass bool             `json:"wcag_aa_large_text_pass"`
}

func (s *Server) handleContrastRatio(args json.RawMessage) (interface{}, error) {
	var a contrastRatioArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	fg, err := s.resolveColor(a.Foreground, a.Path, a.ForegroundPoint, "foreground")
	if err != nil {
		return nil, err
	}
	bg, err := s.resolveColor(a.Background, a.Path, a.BackgroundPoint, "background")
	if err != nil {
		return nil, err
	}

	ratio := imaging.ContrastRatio(fg, bg)
	return &contrastRatioResult{
		Ratio:           float64(int(ratio*100+0.5)) / 100,
		Foreground:      fg,
		Background:      bg,
		ForegroundHex:   fg.Hex(),
		BackgroundHex:   bg.Hex(),
		WCAGAAPass:      ratio >= detection.ContrastAA,
		WCAGAAAPass:     ratio >= detection.ContrastAAA,
		WCAGAALargePass: ratio >= 3.0,
	}, nil
}

// resolveColor returns the hex color when given, otherwise samples pt from the image.
func (s *Server) resolveColor(hex, path string, pt *point, which string) (imaging.RGBColor, error) {
	if hex != "" {
		return imaging.ParseHex(hex)
	}
	if path == "" || pt == nil {
		return imaging.RGBColor{}, goerr.New("color needs a hex value or an image path and point", goerr.V("color", which))
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return imaging.RGBColor{}, err
	}
	return imaging.SampleColor(img, pt.X, pt.Y)
}

type issueCropArgs struct {
	ScanID  string  `json:"scanId"`
	IssueID string  `json:"issueId"`
	Padding *int    `json:"padding,omitempty"`
	Scale   float64 `json:"scale"`
}

type issueCropResult struct {
	ScanID   string             `json:"scanId"`
	IssueID  string             `json:"issueId"`
	Rule     detection.Rule     `json:"rule"`
	Severity detection.Severity `json:"severity"`
	BBox     detection.BBox     `json:"bbox"`
	Region   detection.BBox     `json:"region"`
	*imaging.CropResult
}

func (s *Server) handleIssueCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a issueCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pad := 20
	if a.Padding != nil {
		pad = *a.Padding
	}

	sc, err := s.orch.Get(ctx, a.ScanID)
	if err != nil {
		return nil, err
	}
	if sc.Status != scan.StatusDone || sc.Result == nil {
		return nil, goerr.New("scan has no result", goerr.V("scan_id", a.ScanID), goerr.V("status", sc.Status))
	}

	var issue *detection.Issue
	for i := range sc.Result.Issues {
		if sc.Result.Issues[i].ID == a.IssueID {
			issue = &sc.Result.Issues[i]
			break
		}
	}
	if issue == nil {
		return nil, goerr.New("issue not found", goerr.V("scan_id", a.ScanID), goerr.V("issue_id", a.IssueID))
	}

	data, err := s.orch.Screenshot(ctx, a.ScanID)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode screenshot", goerr.V("scan_id", a.ScanID))
	}

	crop, err := imaging.CropRegion(img, issue.BBox.Rect(), pad, a.Scale)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to crop issue", goerr.V("issue_id", a.IssueID))
	}

	return &issueCropResult{
		ScanID:     a.ScanID,
		IssueID:    issue.ID,
		Rule:       issue.Rule,
		Severity:   issue.Severity,
		BBox:       issue.BBox,
		Region:     detection.BBoxFromRect(crop.Region),
		CropResult: crop,
	}, nil
}
