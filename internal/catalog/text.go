package catalog

import (
	"html"
	"math/big"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripTags = newStripPolicy()

	decimalAmount = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

func newStripPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// PlainText renders product description HTML as a single line of text.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(stripTags.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeAmount renders an Admin API money string in decimal currency units
// with two places, rounding half away from zero. Anything that is not a plain
// decimal (exponents, NaN, Inf) is returned trimmed and unchanged.
func NormalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	if !decimalAmount.MatchString(s) {
		return s
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	return r.FloatString(2)
}
