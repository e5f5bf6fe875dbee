// Package server implements the MCP (Model Context Protocol) server for accessibility scans.
//
// This package provides a JSON-RPC 2.0 server that exposes the scan orchestrator
// through the MCP protocol, so an assistant can submit pages, poll their status and
// read the resulting issues and report paths.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Scans:
//   - a11y_scan_submit: Queue a URL and return its scan id
//   - a11y_scan_status: Read the current record of a scan
//   - a11y_scan_wait: Block until a scan finishes or the timeout passes
//   - a11y_scan_list: List recent scans, newest first
//
// Offline analysis:
//   - a11y_analyze_image: Run the analyzers over a saved screenshot
//   - a11y_contrast_ratio: WCAG contrast between two hex colors or sampled pixels
//
// Scans run in the background. Submit returns as soon as the queued record is
// written; the record moves through running to done or error.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A scan that fails is not a tool error: its record carries status "error" and
// an error kind (render, analysis, artifact or internal).
//
// # Usage
//
//	orch := scan.New(renderer, store, artifacts)
//	srv := server.New(orch, store, server.WithVersion(version))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
