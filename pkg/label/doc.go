// Package label lays out IC package labels in physical millimeters.
//
// Given a chip record from the registry, the package geometry and a render
// [Config], the [Renderer] computes the body outline, the pin-1 marker, the
// centered chip label and one [PinMark] per pin, and returns them as a
// [Chip]: a small tree of positioned drawing primitives that output sinks
// turn into SVG, JSON or print documents.
//
// # Pin Placement
//
// Pins 1..N/2 sit on the bottom edge from left to right. Pins N/2+1..N sit
// on the top edge, numbered counter-clockwise, so they are assigned in
// descending order while walking back from the last bottom position. The
// pin train is centered along the body length.
//
// # Auto-flow
//
// Successive chips are stacked down a column. [Cursor] holds the placement
// state for one render pass; [Renderer.RenderChip] advances it by the chip
// height plus [ChipGap] and wraps to a new column, [ColumnWidth] to the
// right, when the next chip would come within [WrapMargin] of the page
// bottom.
//
// # Failures
//
// An unknown chip name is the only error. It is reported through the
// configured notifier, nothing is drawn and the cursor is left untouched,
// so the rest of the pass is unaffected.
//
// # Usage
//
//	r := label.New(registry.Default(), label.DefaultConfig())
//	var surface label.Surface
//	var cur label.Cursor
//	if _, err := r.RenderChip(&surface, &cur, label.Request{Name: "74LS00", Family: "HC"}); err != nil {
//	    // unknown chip; cursor unchanged
//	}
package label
