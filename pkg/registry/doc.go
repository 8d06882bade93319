// Package registry holds the static chip pinout and package outline tables.
//
// The tables are plain TOML data embedded into the binary (see data/), so
// they can be authored and edited independently of the renderer. Users can
// overlay their own tables with [LoadFiles] and [Registry.Merge].
//
// # Pin Entries
//
// A pin entry in the chip table is either a bare label (the legacy shape,
// which defaults to an input pin of type "other") or an array of label,
// direction and optional type. Both shapes are resolved once at load time
// into a single [Pin] value, so consumers never branch on the entry shape.
//
// # Lookups
//
// [Registry.Lookup] and [Registry.LookupPackage] are pure, exact-match
// lookups. A missing chip is a user error handled by the caller; a missing
// package is tolerated and the renderer derives geometry from the pin table.
//
// # Usage
//
//	reg := registry.Default()
//	chip, ok := reg.Lookup("74LS00")
//	if !ok {
//	    // unknown chip
//	}
//	pkg, ok := reg.LookupPackage(chip.Package)
package registry
