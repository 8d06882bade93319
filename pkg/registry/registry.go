package registry

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
)

//go:embed data/chips.toml
var builtinChips []byte

//go:embed data/packages.toml
var builtinPackages []byte

// Registry maps chip names to chip records and package names to outlines.
// A Registry is never mutated after construction and is safe for
// concurrent reads.
type Registry struct {
	chips    map[string]Chip
	packages map[string]Package
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the built-in registry decoded from the embedded tables.
// It panics if the embedded data is malformed, which is a build defect.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load(builtinChips, builtinPackages)
		if err != nil {
			panic(fmt.Sprintf("registry: embedded tables: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Load decodes chip and package tables. Either document may be empty.
func Load(chipsTOML, packagesTOML []byte) (*Registry, error) {
	r := &Registry{chips: map[string]Chip{}, packages: map[string]Package{}}
	if len(chipsTOML) > 0 {
		chips, err := decodeChips(chipsTOML)
		if err != nil {
			return nil, err
		}
		r.chips = chips
	}
	if len(packagesTOML) > 0 {
		pkgs, err := decodePackages(packagesTOML)
		if err != nil {
			return nil, err
		}
		r.packages = pkgs
	}
	return r, nil
}

// LoadFiles reads chip and package tables from disk. An empty path skips
// that table.
func LoadFiles(chipsPath, packagesPath string) (*Registry, error) {
	read := func(path string) ([]byte, error) {
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}

	chips, err := read(chipsPath)
	if err != nil {
		return nil, err
	}
	pkgs, err := read(packagesPath)
	if err != nil {
		return nil, err
	}
	return Load(chips, pkgs)
}

// Merge returns a new registry with the entries of other laid over r.
// Entries in other replace entries of the same name.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{
		chips:    make(map[string]Chip, len(r.chips)),
		packages: make(map[string]Package, len(r.packages)),
	}
	for k, v := range r.chips {
		out.chips[k] = v
	}
	for k, v := range r.packages {
		out.packages[k] = v
	}
	if other != nil {
		for k, v := range other.chips {
			out.chips[k] = v
		}
		for k, v := range other.packages {
			out.packages[k] = v
		}
	}
	return out
}

// Lookup returns the chip with exactly the given name.
func (r *Registry) Lookup(name string) (Chip, bool) {
	c, ok := r.chips[name]
	return c, ok
}

// LookupPackage returns the package with exactly the given name.
func (r *Registry) LookupPackage(name string) (Package, bool) {
	if name == "" {
		return Package{}, false
	}
	p, ok := r.packages[name]
	return p, ok
}

// Len returns the number of chips.
func (r *Registry) Len() int { return len(r.chips) }

// Names returns all chip names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.chips))
	for name := range r.chips {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// PackageNames returns all package names ordered by pin count.
func (r *Registry) PackageNames() []string {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := r.packages[a].Pins - r.packages[b].Pins; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// Search returns chips whose name, description or category contains query,
// case-insensitively, sorted by name. An empty query matches everything.
func (r *Registry) Search(query string) []Chip {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Chip
	for _, name := range r.Names() {
		c := r.chips[name]
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Description), q) ||
			strings.Contains(string(c.Category), q) {
			out = append(out, c)
		}
	}
	return out
}
