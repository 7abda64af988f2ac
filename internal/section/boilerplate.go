package section

import (
	"math"

	"github.com/chriscorrea/termweight/internal/tokenize"
)

// boilerplateStems are snowball stems that dominate navigation, headers,
// footers and publishing metadata rather than article text
var boilerplateStems = map[string]struct{}{
	// publishing
	"author":    {},
	"appendix":  {},
	"chapter":   {},
	"content":   {},
	"copyright": {},
	"edit":      {},
	"footer":    {},
	"isbn":      {},
	"licens":    {},
	"publish":   {},
	"reserv":    {},
	"right":     {},

	// navigation
	"cooki":    {},
	"home":     {},
	"login":    {},
	"menu":     {},
	"navig":    {},
	"next":     {},
	"previous": {},
	"privaci":  {},
	"share":    {},
	"sign":     {},
	"subscrib": {},
	"term":     {},
	"https":    {},
	"www":      {},
	"com":      {},
	"skip":     {},
	"search":   {},
	"newslett": {},
}

// IsBoilerplate reports whether the section at index of total looks like
// navigation or publishing boilerplate. A section qualifies when its share of
// boilerplate stems exceeds a threshold that is lowest at the edges of the
// document, where headers and footers sit.
func IsBoilerplate(text string, index, total int) bool {
	if total <= 0 || index < 0 || index >= total {
		return false
	}

	var tokens, hits int
	for stem := range tokenize.Stem(tokenize.Words(text), tokenize.DefaultLanguage) {
		tokens++
		if _, ok := boilerplateStems[stem]; ok {
			hits++
		}
	}
	if tokens == 0 {
		return true
	}

	return float64(hits)/float64(tokens) > threshold(index, total)
}

// threshold rises linearly from 0.1 at either edge to 0.33 in the middle;
// short documents use a flat 0.5
func threshold(index, total int) float64 {
	if total <= 3 {
		return 0.5
	}

	position := float64(index) / float64(total-1)
	centrality := 1.0 - math.Abs(2.0*position-1.0)

	const edge, middle = 0.1, 0.33
	return edge + (middle-edge)*centrality
}
