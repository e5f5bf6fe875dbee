package detection

import (
	"fmt"
	"strings"
)

// Enrich attaches the first overlapping DOM element to each issue, in place.
//
// For every issue the elements are scanned in input order and the first one whose box
// overlaps the issue box wins (first match, not best match). A match prefixes the issue
// message with a short element description and sets the details element. Issues without
// a match are left unchanged; no issue is ever added or removed.
//
// It returns the number of enriched issues. A panic while enriching is recovered and
// returned as an error; issues enriched before the panic keep their context.
func Enrich(issues []Issue, elements []PageElement) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panicked: %v", r)
		}
	}()

	if len(elements) == 0 {
		return 0, nil
	}

	for i := range issues {
		issue := &issues[i]
		el, ok := firstOverlap(issue.BBox, elements)
		if !ok {
			continue
		}

		issue.Message = "Element: " + describeElement(el) + ". " + issue.Message
		if issue.Details != nil {
			issue.Details.setElement(elementContext(el))
		}
		n++
	}
	return n, nil
}

func firstOverlap(b BBox, elements []PageElement) (PageElement, bool) {
	for _, el := range elements {
		if b.Overlaps(el.BBox.X, el.BBox.Y, el.BBox.Width, el.BBox.Height) {
			return el, true
		}
	}
	return PageElement{}, false
}

// describeElement renders `tag (selector) containing "text"` with the text cut to 50 runes.
func describeElement(el PageElement) string {
	var b strings.Builder
	if el.Tag != "" {
		b.WriteString(el.Tag)
	} else {
		b.WriteString("element")
	}
	if el.Selector != "" {
		fmt.Fprintf(&b, " (%s)", el.Selector)
	}
	if el.Text != "" {
		fmt.Fprintf(&b, " containing %q", truncateRunes(el.Text, 50))
	}
	return b.String()
}

func elementContext(el PageElement) *ElementContext {
	return &ElementContext{
		Selector:       el.Selector,
		Tag:            el.Tag,
		Text:           el.Text,
		Role:           el.Role,
		AriaLabel:      el.AriaLabel,
		Href:           el.Href,
		Type:           el.Type,
		ComputedStyles: el.Styles,
	}
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
