package dims

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shadowboard/shadowboard/pkg/errors"
)

// MillimetersPerInch converts metric input to canonical inches.
const MillimetersPerInch = 25.4

// MaxInches bounds each side of a template. A 96" side already renders
// to a surface of about 7000 pixels square.
const MaxInches = 96

// Denominators lists the ruler subdivisions offered for fractional input.
var Denominators = []int{2, 4, 8, 16}

// Mode selects which raw fields feed the normalizer.
type Mode string

const (
	ModeDecimal  Mode = "decimal"
	ModeFraction Mode = "fraction"
	ModeMetric   Mode = "metric"
)

// Modes lists the input modes in the order the input surfaces cycle them.
var Modes = []Mode{ModeDecimal, ModeFraction, ModeMetric}

// ParseMode parses an input mode name. The empty string means decimal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDecimal:
		return ModeDecimal, nil
	case ModeFraction:
		return ModeFraction, nil
	case ModeMetric:
		return ModeMetric, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: decimal, fraction, metric)", s)
}

// Dimensions is a template size in inches. The zero value means
// "no template yet".
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the dimensions describe a renderable template.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// CheckExtent returns an INVALID_INPUT error when either side of d
// exceeds MaxInches.
func CheckExtent(d Dimensions) error {
	if d.Width > MaxInches || d.Height > MaxInches {
		return errors.New(errors.ErrCodeInvalidInput, "template %s is too large (max %s per side)", d, FormatInches(MaxInches))
	}
	return nil
}

// String formats the dimensions as display labels, e.g. `5.00" x 3.00"`.
func (d Dimensions) String() string {
	return fmt.Sprintf("%s x %s", FormatInches(d.Width), FormatInches(d.Height))
}

// Fraction is the raw whole-plus-fraction form of one axis.
type Fraction struct {
	Whole       string `json:"whole"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// Inches converts the fraction to inches. Unparsable whole or numerator
// fields count as 0; an unparsable or zero denominator counts as 1.
func (f Fraction) Inches() float64 {
	whole := ParseFloat(f.Whole)
	num := ParseFloat(f.Numerator)
	den := ParseFloat(f.Denominator)
	if den == 0 {
		den = 1
	}
	return whole + num/den
}

// Input holds the raw fields of every input mode plus the active mode.
// Only the fields belonging to Mode are read.
type Input struct {
	Mode Mode `json:"mode"`

	// Width and Height are used by decimal (inches) and metric (mm) modes.
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`

	WidthFraction  Fraction `json:"width_fraction"`
	HeightFraction Fraction `json:"height_fraction"`
}

// Normalize converts the active mode's raw fields into canonical inches.
// Mode names are matched like ParseMode; an unknown mode reads as decimal.
// Negative results pass through unchanged; callers gate on Valid.
func Normalize(in Input) Dimensions {
	mode, _ := ParseMode(string(in.Mode))
	switch mode {
	case ModeFraction:
		return Dimensions{
			Width:  in.WidthFraction.Inches(),
			Height: in.HeightFraction.Inches(),
		}
	case ModeMetric:
		return Dimensions{
			Width:  ParseFloat(in.Width) / MillimetersPerInch,
			Height: ParseFloat(in.Height) / MillimetersPerInch,
		}
	default:
		return Dimensions{
			Width:  ParseFloat(in.Width),
			Height: ParseFloat(in.Height),
		}
	}
}

// FormatInches formats an inch value with two fraction digits and a
// trailing inch mark. The output does not depend on the locale.
func FormatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + `"`
}

// ToMillimeters converts inches to millimeters.
func ToMillimeters(in float64) float64 {
	return in * MillimetersPerInch
}
