package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
)

// inputFlags holds the dimension flags shared by generate, print and tile.
type inputFlags struct {
	mode   string
	width  string
	height string

	widthWhole, widthNum   string
	heightWhole, heightNum string
	widthDen, heightDen    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.mode, "mode", "m", string(dims.ModeDecimal), "input mode: decimal (inches), fraction, metric (mm)")
	fl.StringVarP(&f.width, "width", "W", "", "width in inches (decimal) or millimeters (metric)")
	fl.StringVarP(&f.height, "height", "H", "", "height in inches (decimal) or millimeters (metric)")
	fl.StringVar(&f.widthWhole, "width-whole", "", "whole inches of the width (fraction mode)")
	fl.StringVar(&f.widthNum, "width-num", "", "numerator of the width fraction")
	fl.IntVar(&f.widthDen, "width-den", 16, "denominator of the width fraction: 2, 4, 8 or 16")
	fl.StringVar(&f.heightWhole, "height-whole", "", "whole inches of the height (fraction mode)")
	fl.StringVar(&f.heightNum, "height-num", "", "numerator of the height fraction")
	fl.IntVar(&f.heightDen, "height-den", 16, "denominator of the height fraction: 2, 4, 8 or 16")
}

// input builds the raw input. Values are not parsed here: unparsable
// numbers degrade to zero during normalization. Only the mode and the
// fraction denominators are checked, as they come from fixed choices.
func (f *inputFlags) input() (dims.Input, error) {
	mode, err := dims.ParseMode(f.mode)
	if err != nil {
		return dims.Input{}, err
	}
	in := dims.Input{Mode: mode, Width: f.width, Height: f.height}
	if mode == dims.ModeFraction {
		for _, d := range []int{f.widthDen, f.heightDen} {
			if err := errors.ValidateDenominator(d); err != nil {
				return dims.Input{}, err
			}
		}
		in.WidthFraction = dims.Fraction{Whole: f.widthWhole, Numerator: f.widthNum, Denominator: strconv.Itoa(f.widthDen)}
		in.HeightFraction = dims.Fraction{Whole: f.heightWhole, Numerator: f.heightNum, Denominator: strconv.Itoa(f.heightDen)}
	}
	return in, nil
}
