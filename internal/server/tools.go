package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func pointProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Scans
		{
			Name:        "a11y_scan_submit",
			Description: "Start an accessibility scan of a web page. The page is rendered in headless Chrome, screenshotted and checked for low color contrast (WCAG 1.4.3/1.4.6) and undersized targets (WCAG 2.5.8). Returns a scan id immediately; poll a11y_scan_status or block on a11y_scan_wait.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": stringProp("Page URL to scan"),
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "a11y_scan_status",
			Description: "Get the current record of a scan: status (queued, running, done, error), and the result or error once finished.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scanId": stringProp("Scan id returned by a11y_scan_submit"),
				},
				"required": []string{"scanId"},
			},
		},
		{
			Name:        "a11y_scan_wait",
			Description: "Wait for a scan to finish and return its record. If the timeout expires first, the current record is returned with timedOut set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scanId": stringProp("Scan id returned by a11y_scan_submit"),
					"timeoutSeconds": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum seconds to wait. Default 120",
						"default":     120,
					},
				},
				"required": []string{"scanId"},
			},
		},
		{
			Name:        "a11y_scan_list",
			Description: "List recent scans, newest first, with issue counts per severity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of scans to return. Default 20",
						"default":     20,
					},
				},
			},
		},

		// Offline analysis
		{
			Name:        "a11y_analyze_image",
			Description: "Run the contrast and target-size checks on an existing screenshot file. Optionally pass a JSON file with the page's interactive elements to attach DOM context to each issue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         stringProp("Absolute path to a PNG or JPEG screenshot"),
					"elementsPath": stringProp("Optional path to a JSON array of page elements (selector, tag, text, bbox, styles)"),
					"url":          stringProp("Optional page URL recorded in the reports"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "a11y_contrast_ratio",
			Description: "Compute the WCAG contrast ratio of two colors, given as hex strings or sampled from pixels of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"foreground":      stringProp("Foreground color as hex, e.g. #767676"),
					"background":      stringProp("Background color as hex, e.g. #FFFFFF"),
					"path":            stringProp("Image to sample from when foregroundPoint/backgroundPoint are given"),
					"foregroundPoint": pointProp("Pixel to sample the foreground color from"),
					"backgroundPoint": pointProp("Pixel to sample the background color from"),
				},
			},
		},
		{
			Name:        "a11y_issue_crop",
			Description: "Return a close-up PNG (base64) of one issue of a finished scan, cut from its screenshot with some surrounding context.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scanId":  stringProp("Scan id returned by a11y_scan_submit"),
					"issueId": stringProp("Issue id, e.g. A11Y-LOWCON-0"),
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of context around the issue box. Default 20",
						"default":     20,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Zoom factor for the close-up, up to 8. Default 1",
						"default":     1.0,
					},
				},
				"required": []string{"scanId", "issueId"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
