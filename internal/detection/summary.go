package detection

// Summary counts issues per severity.
type Summary struct {
	Total            int `json:"total_issues"`
	Critical         int `json:"critical"`
	Serious          int `json:"serious"`
	Moderate         int `json:"moderate"`
	Minor            int `json:"minor"`
	ElementsAnalyzed int `json:"elements_analyzed"`
}

// Summarize counts issues per severity. elements is the number of DOM elements that were
// available for enrichment.
func Summarize(issues []Issue, elements int) Summary {
	s := Summary{Total: len(issues), ElementsAnalyzed: elements}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			s.Critical++
		case SeveritySerious:
			s.Serious++
		case SeverityModerate:
			s.Moderate++
		case SeverityMinor:
			s.Minor++
		}
	}
	return s
}

// Count returns the number of issues with the given severity.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeveritySerious:
		return s.Serious
	case SeverityModerate:
		return s.Moderate
	case SeverityMinor:
		return s.Minor
	}
	return 0
}
