// Package dims normalizes user-entered template dimensions.
//
// Users describe a template in one of three input modes:
//
//   - [ModeDecimal]: decimal inches ("12.5")
//   - [ModeFraction]: whole inches plus a ruler fraction (12 + 1/2)
//   - [ModeMetric]: millimeters ("317.5")
//
// [Normalize] turns whichever mode is active into a canonical
// [Dimensions] value in inches. Normalization never fails: fields that do
// not parse degrade to 0 (or 1 for a fraction denominator), so the result
// always describes *some* size. Callers decide whether that size is a
// template with [Dimensions.Valid].
//
//	in := dims.Input{
//	    Mode:   dims.ModeMetric,
//	    Width:  "254",
//	    Height: "127",
//	}
//	d := dims.Normalize(in) // {Width: 10, Height: 5}
//
// Normalization is a pure function of its input; there is no hidden state.
package dims
