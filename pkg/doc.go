// Package pkg provides the core libraries for Shadowboard grid templates.
//
// # Overview
//
// Shadowboard turns a template size into a printable 1-inch grid with a
// labeled border and branding, for laying out tools on shadowboard foam.
// The pkg directory is organized into these areas:
//
//  1. [dims] - Input normalization (decimal, fractional and metric inches)
//  2. [render] - Canvas, surfaces and the render generation counter
//  3. [render/grid] and [render/brand] - Grid drawing and the branding overlay
//  4. [tile] - Splitting a template across Letter pages
//  5. [export] - PNG, print HTML and PDF documents
//  6. [pipeline] - Orchestration (normalize → render → export) with caching
//  7. [cache], [config], [server] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	raw input fields
//	       ↓
//	  [dims] Normalize (inches)
//	       ↓
//	  [render/grid] draw on a fresh canvas generation
//	       ↓
//	  [render/brand] overlay logo or text fallback (async)
//	       ↓
//	  [export] PNG / HTML / PDF, optionally tiled via [tile]
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, config.Default(), nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   dims.Input{Mode: dims.ModeFraction,
//	        WidthFraction:  dims.Fraction{Whole: "2", Numerator: "3", Denominator: "4"},
//	        HeightFraction: dims.Fraction{Whole: "1"}},
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatTiledPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	if result.Empty {
//	    return nil // no template for zero or negative sizes
//	}
//	os.WriteFile(export.Filename(result.Dims), result.Artifacts[pipeline.FormatPNG], 0o644)
package pkg
