// Package pkg provides the core libraries for iclabels, a renderer of
// printable pinout labels for DIP integrated circuits.
//
// # Overview
//
// A label sits on top of a chip on a breadboard and names every pin next to
// the pin it belongs to. The pkg directory is organized into:
//
//  1. [registry] - Chip pinouts and DIP package outlines (TOML tables)
//  2. [label] - Geometry of one chip label as drawing primitives
//  3. [page] - Paper, margins, sheet markup and render passes
//  4. [render] - SVG, HTML, JSON, PDF and PNG output
//  5. [prefs] - The saved page layout (file, Redis or MongoDB)
//  6. [cache] - Content-addressed artifact cache (file or Redis)
//
// # Architecture
//
// The typical data flow:
//
//	<ic-labels> sheet markup, --chip flags
//	         ↓
//	    [page] package (sheet + saved layout)
//	         ↓
//	    [registry] lookup → [label] layout
//	         ↓
//	    [page.Pass] (placed labels, skipped chips)
//	         ↓
//	    [render] SVG/HTML/JSON/PDF/PNG
//
// # Quick Start
//
// Render two NAND gates and a 555 timer to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/iclabels/pkg/page"
//	    "github.com/matzehuels/iclabels/pkg/registry"
//	    "github.com/matzehuels/iclabels/pkg/render"
//	)
//
//	sheet := page.NewSheet()
//	sheet.Add(page.Entry{Name: "74LS00", Count: 2})
//	sheet.Add(page.Entry{Name: "555", Count: 1})
//
//	pass := page.Render(context.Background(), sheet, registry.Default(), page.Options{})
//	svg := render.RenderSVG(pass)
//
// # Observability
//
// The [observability] package carries render, cache and HTTP hooks. They
// default to no-ops; the CLI routes them to the debug log with -v.
//
// [registry]: github.com/matzehuels/iclabels/pkg/registry
// [label]: github.com/matzehuels/iclabels/pkg/label
// [page]: github.com/matzehuels/iclabels/pkg/page
// [page.Pass]: github.com/matzehuels/iclabels/pkg/page#Pass
// [render]: github.com/matzehuels/iclabels/pkg/render
// [prefs]: github.com/matzehuels/iclabels/pkg/prefs
// [cache]: github.com/matzehuels/iclabels/pkg/cache
// [observability]: github.com/matzehuels/iclabels/pkg/observability
package pkg
