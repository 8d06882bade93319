package registry

import "fmt"

// Problem is a consistency issue found in a chip record.
type Problem struct {
	Chip    string
	Message string
}

func (p Problem) String() string { return fmt.Sprintf("%s: %s", p.Chip, p.Message) }

// Validate checks every chip against the layout invariants: pin numbers are
// contiguous from 1, the pin count is even and matches the package when the
// package resolves. Problems are returned sorted by chip name.
func (r *Registry) Validate() []Problem {
	var problems []Problem
	for _, name := range r.Names() {
		problems = append(problems, r.validateChip(r.chips[name])...)
	}
	return problems
}

func (r *Registry) validateChip(c Chip) []Problem {
	var problems []Problem
	add := func(format string, args ...any) {
		problems = append(problems, Problem{Chip: c.Name, Message: fmt.Sprintf(format, args...)})
	}

	if len(c.Pins) == 0 {
		add("no pins")
		return problems
	}
	for i, p := range c.Pins {
		if p.Number != i+1 {
			add("pin numbers not contiguous: expected %d, found %d", i+1, p.Number)
			break
		}
	}
	if len(c.Pins)%2 != 0 {
		add("odd pin count %d", len(c.Pins))
	}

	if c.Package == "" {
		return problems
	}
	pkg, ok := r.LookupPackage(c.Package)
	if !ok {
		add("unknown package %q", c.Package)
		return problems
	}
	if pkg.Pins != len(c.Pins) {
		add("package %s has %d pins, pin table has %d", pkg.Name, pkg.Pins, len(c.Pins))
	}
	return problems
}
