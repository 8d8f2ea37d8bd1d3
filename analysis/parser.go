package analysis

import (
	"regexp"
	"strings"
)

// ============================================================================
// BLOB PARSER — Extracts the ANALYSIS/INSIGHTS sections from a cached blob
// ============================================================================
// Current format: two labeled sections. Legacy format: unlabeled prose
// blocks separated by blank-line runs, possibly led by a role label
// ("AI:", "Assistant:"). Header extraction is attempted first, the
// blank-line split is the fallback.
// ============================================================================

// Sections is the parsed form of an analysis blob.
type Sections struct {
	Analysis string `json:"analysis"`
	Insights string `json:"insights"`
}

var (
	analysisHeader = regexp.MustCompile(`(?im)^\s*ANALYSIS:\s*`)
	insightsHeader = regexp.MustCompile(`(?im)^\s*INSIGHTS:\s*`)
	blankLineRun   = regexp.MustCompile(`\n\s*\n`)
	roleLabel      = regexp.MustCompile(`(?i)^(ai|assistant|analyst|model)\s*:\s*`)
)

// ParseSections splits an analysis blob into its two sections.
func ParseSections(blob string) Sections {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return Sections{}
	}

	if s, ok := parseLabeled(blob); ok {
		return s
	}
	return parseLegacy(blob)
}

func parseLabeled(blob string) (Sections, bool) {
	aLoc := analysisHeader.FindStringIndex(blob)
	iLoc := insightsHeader.FindStringIndex(blob)
	if aLoc == nil && iLoc == nil {
		return Sections{}, false
	}

	var s Sections
	switch {
	case aLoc != nil && iLoc != nil && aLoc[0] <= iLoc[0]:
		s.Analysis = strings.TrimSpace(blob[aLoc[1]:iLoc[0]])
		s.Insights = strings.TrimSpace(blob[iLoc[1]:])
	case aLoc != nil && iLoc != nil:
		s.Insights = strings.TrimSpace(blob[iLoc[1]:aLoc[0]])
		s.Analysis = strings.TrimSpace(blob[aLoc[1]:])
	case aLoc != nil:
		s.Analysis = strings.TrimSpace(blob[aLoc[1]:])
	default:
		s.Insights = strings.TrimSpace(blob[iLoc[1]:])
	}
	return s, true
}

// parseLegacy splits on blank-line runs: first block is the analysis, the
// rest joins into insights. Leading role labels are discarded.
func parseLegacy(blob string) Sections {
	blocks := blankLineRun.Split(blob, -1)
	cleaned := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(roleLabel.ReplaceAllString(strings.TrimSpace(b), ""))
		if b != "" {
			cleaned = append(cleaned, b)
		}
	}

	switch len(cleaned) {
	case 0:
		return Sections{}
	case 1:
		return Sections{Analysis: cleaned[0]}
	default:
		return Sections{
			Analysis: cleaned[0],
			Insights: strings.Join(cleaned[1:], "\n\n"),
		}
	}
}
