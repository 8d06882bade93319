// Package render turns a label render pass into output documents.
//
// # Overview
//
// A [page.Pass] holds positioned primitives in millimeters. This package
// encodes them as:
//
//   - SVG: a paper-sized document in mm units, one nested viewport per chip
//   - HTML: a print preview embedding the SVG with the @page rule for the
//     paper preset, optional zoom, controls and live reload
//   - JSON: the pass itself, for tooling
//   - PDF and PNG: the SVG converted by the external rsvg-convert tool
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG using rsvg-convert
// (from librsvg):
//
//	svg := render.RenderSVG(pass)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Export
//
// [Exporter] dispatches on [Format], reports to the observability render
// hooks and serves converted formats from a [cache.Cache] when one is set.
//
// [page.Pass]: github.com/matzehuels/iclabels/pkg/page.Pass
// [cache.Cache]: github.com/matzehuels/iclabels/pkg/cache.Cache
package render
