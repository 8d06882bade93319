package registry

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
)

// rawChip mirrors one chip table in chips.toml.
type rawChip struct {
	Description string              `toml:"description"`
	Category    string              `toml:"category"`
	Package     string              `toml:"package"`
	Pins        map[string]pinEntry `toml:"pins"`
}

// pinEntry is a pin as written in TOML: a bare label, or an array of
// label, direction and optional type.
type pinEntry struct {
	Label     string
	Direction Direction
	Type      PinType
}

// UnmarshalTOML resolves both entry shapes into label, direction and type.
func (e *pinEntry) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*e = pinEntry{Label: val, Direction: DirInput, Type: PinOther}
		return nil
	case []any:
		return e.fromArray(val)
	default:
		return fmt.Errorf("pin entry must be a string or an array, got %T", v)
	}
}

func (e *pinEntry) fromArray(vals []any) error {
	if len(vals) == 0 || len(vals) > 3 {
		return fmt.Errorf("pin entry array must have 1 to 3 elements, got %d", len(vals))
	}
	fields := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("pin entry element %d must be a string, got %T", i, v)
		}
		fields[i] = s
	}

	*e = pinEntry{Label: fields[0], Direction: DirInput, Type: PinOther}
	if len(fields) > 1 && fields[1] != "" {
		e.Direction = Direction(fields[1])
		if !e.Direction.Valid() {
			return fmt.Errorf("unknown pin direction %q", fields[1])
		}
	}
	if len(fields) > 2 && fields[2] != "" {
		e.Type = PinType(fields[2])
		if !e.Type.Valid() {
			return fmt.Errorf("unknown pin type %q", fields[2])
		}
	}
	return nil
}

// decodeChips parses a chips TOML document.
func decodeChips(data []byte) (map[string]Chip, error) {
	var raw map[string]rawChip
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode chips: %w", err)
	}

	chips := make(map[string]Chip, len(raw))
	for name, rc := range raw {
		chip, err := rc.toChip(name)
		if err != nil {
			return nil, fmt.Errorf("chip %q: %w", name, err)
		}
		chips[name] = chip
	}
	return chips, nil
}

func (rc rawChip) toChip(name string) (Chip, error) {
	cat := Category(rc.Category)
	if !cat.Valid() {
		return Chip{}, fmt.Errorf("unknown category %q", rc.Category)
	}

	pins := make([]Pin, 0, len(rc.Pins))
	for key, entry := range rc.Pins {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 {
			return Chip{}, fmt.Errorf("invalid pin number %q", key)
		}
		pins = append(pins, Pin{
			Number:    n,
			Label:     entry.Label,
			Direction: entry.Direction,
			Type:      entry.Type,
		})
	}
	slices.SortFunc(pins, func(a, b Pin) int { return cmp.Compare(a.Number, b.Number) })

	return Chip{
		Name:        name,
		Description: rc.Description,
		Category:    cat,
		Package:     rc.Package,
		Pins:        pins,
	}, nil
}

// decodePackages parses a packages TOML document.
func decodePackages(data []byte) (map[string]Package, error) {
	var raw map[string]Package
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	for name, p := range raw {
		if p.Pins <= 0 {
			return nil, fmt.Errorf("package %q: pins must be positive", name)
		}
		p.Name = name
		raw[name] = p
	}
	return raw, nil
}
