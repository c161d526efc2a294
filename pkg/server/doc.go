// Package server exposes the template pipeline over HTTP.
//
// Routes:
//
//	GET /                 form page with a live preview
//	GET /api/dimensions   normalized dimensions, filename and page grid (JSON)
//	GET /template.png     PNG download
//	GET /template.pdf     PDF print document (?tiled=1 for tiled pages)
//	GET /print            HTML print document
//	GET /print/tiled      tiled HTML print document
//	GET /healthz          liveness probe
//
// Every template route reads the same query parameters: mode (decimal,
// fraction or metric), width and height for decimal and metric input,
// width_whole, width_num, width_den and the height_* equivalents for
// fractional input, and an optional profile. Input that does not describe
// a template yields 204 No Content.
package server
