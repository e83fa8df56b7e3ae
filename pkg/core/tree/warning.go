package tree

import (
	"slices"
)

// Warning is a quality issue found while normalizing or parsing a name.
// Quality runs from 1 (clean) to 4 (significant problems); the overall
// quality of a parse is the worst warning quality.
type Warning struct {
	Quality int    `json:"quality"`
	Message string `json:"warning"`
}

// Warning catalogue.
var (
	WarnTail              = Warning{4, "Unparsed tail"}
	WarnNonPrintable      = Warning{3, "Non-printable characters removed"}
	WarnHTMLEntities      = Warning{3, "HTML entities or tags in the name"}
	WarnAbbreviatedGenus  = Warning{3, "Abbreviated genus"}
	WarnApproximation     = Warning{3, "Name is approximate"}
	WarnComparison        = Warning{3, "Name comparison"}
	WarnHybridIncomplete  = Warning{3, "Incomplete hybrid formula"}
	WarnZooInfrasubsp     = Warning{3, "Infrasubspecific rank in zoological name"}
	WarnYearParens        = Warning{3, "Year with parentheses"}
	WarnYearRange         = Warning{3, "Year range"}
	WarnMultipleSpaces    = Warning{2, "Multiple adjacent spaces"}
	WarnLeadingTrailing   = Warning{2, "Leading or trailing spaces"}
	WarnTransliterated    = Warning{2, "Non-standard characters in canonical"}
	WarnHybridFormula     = Warning{2, "Hybrid formula"}
	WarnNamedHybrid       = Warning{2, "Named hybrid"}
	WarnYearBrackets      = Warning{2, "Year with square brackets"}
	WarnYearQuestion      = Warning{2, "Year with question mark"}
	WarnYearLetter        = Warning{2, "Year with latin character"}
	WarnAmbiguous         = Warning{2, "Ambiguous name interpretation"}
	WarnCultivar          = Warning{2, "Cultivar epithet"}
	WarnCandidatus        = Warning{2, "Bacterial Candidatus name"}
	WarnMissingRankBotany = Warning{2, "Infraspecific rank marker missing"}
	WarnAuthorEx          = Warning{2, "Ex authors are not required"}
)

// Quality returns the worst quality among ws, or 1 when ws is empty.
func Quality(ws []Warning) int {
	q := 1
	for _, w := range ws {
		q = max(q, w.Quality)
	}
	return q
}

// SortWarnings orders warnings worst first, then by message, and drops
// duplicates. The result is deterministic for a given set of warnings.
func SortWarnings(ws []Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	out := slices.Clone(ws)
	slices.SortFunc(out, func(a, b Warning) int {
		if a.Quality != b.Quality {
			return b.Quality - a.Quality
		}
		switch {
		case a.Message < b.Message:
			return -1
		case a.Message > b.Message:
			return 1
		}
		return 0
	})
	return slices.Compact(out)
}
