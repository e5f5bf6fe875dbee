package detection

import "math"

// PageElement is an interactive DOM element captured by the renderer.
type PageElement struct {
	Selector  string        `json:"selector"`
	Tag       string        `json:"tag"`
	Role      string        `json:"role"`
	AriaLabel string        `json:"ariaLabel"`
	Text      string        `json:"text"`
	BBox      ElementBox    `json:"bbox"`
	Styles    ElementStyles `json:"styles"`
	Href      string        `json:"href"`
	Type      string        `json:"type"`
}

// ElementBox is the element's bounding client rect, rounded to whole pixels.
type ElementBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ElementStyles holds the computed styles relevant to the heuristics.
type ElementStyles struct {
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	FontSize        string `json:"fontSize"`
	FontWeight      string `json:"fontWeight"`
}

// PageInfo is the page metadata captured by the renderer.
type PageInfo struct {
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Lang     string       `json:"lang"`
	Viewport PageViewport `json:"viewport"`
}

// PageViewport is the browser viewport plus the full document height.
type PageViewport struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	ScrollHeight int `json:"scrollHeight"`
}

// DefaultPageInfo is used when the page metadata cannot be read.
func DefaultPageInfo(url string) PageInfo {
	return PageInfo{
		Title: "Unknown",
		URL:   url,
		Lang:  "not specified",
		Viewport: PageViewport{
			Width:        1280,
			Height:       800,
			ScrollHeight: 800,
		},
	}
}

// round rounds v to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
