package dims

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// floatPrefix matches the longest decimal literal at the start of a string.
var floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseFloat parses the leading decimal number of s, ignoring leading
// whitespace and any trailing text ("3.5in" is 3.5). It returns 0 when no
// number can be read, and for non-finite values, so callers can always
// compute a size from the result.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out-of-range exponents report an error alongside ±Inf.
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
