// Package render drives a headless browser: it loads a page, captures a full-page
// screenshot and snapshots the interactive DOM elements with their boxes and styles.
//
// Navigation problems are tolerated. The page is captured in whatever state it reached
// when the navigation or network-idle timeout expired.
package render
