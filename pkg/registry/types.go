package registry

import "strings"

// Direction is the signal direction of a pin.
type Direction string

const (
	DirInput         Direction = "input"
	DirOutput        Direction = "output"
	DirBidirectional Direction = "bidirectional"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirInput, DirOutput, DirBidirectional:
		return true
	}
	return false
}

// PinType is the semantic function of a pin. It selects the pin color.
type PinType string

const (
	PinPower      PinType = "power"
	PinGround     PinType = "ground"
	PinAddress    PinType = "address"
	PinData       PinType = "data"
	PinClock      PinType = "clock"
	PinChipSelect PinType = "chip-select"
	PinReset      PinType = "reset"
	PinEnable     PinType = "enable"
	PinInterrupt  PinType = "interrupt"
	PinNC         PinType = "nc"
	PinOther      PinType = "other"
)

// PinTypes lists every pin type in palette order.
var PinTypes = []PinType{
	PinPower, PinGround, PinAddress, PinData, PinClock, PinChipSelect,
	PinReset, PinEnable, PinInterrupt, PinNC, PinOther,
}

// Valid reports whether t is one of the known pin types.
func (t PinType) Valid() bool {
	for _, known := range PinTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Category is the kind of chip. It selects the color of the chip label.
type Category string

const (
	CategoryNone           Category = ""
	CategoryGate           Category = "gate"
	CategoryFlipFlop       Category = "flipflop"
	CategoryDemux          Category = "demux"
	CategoryMux            Category = "mux"
	CategoryCounter        Category = "counter"
	CategoryRegister       Category = "register"
	CategoryRAM            Category = "ram"
	CategorySRAM           Category = "sram"
	CategoryEEPROM         Category = "eeprom"
	CategoryBuffer         Category = "buffer"
	CategoryBusTransceiver Category = "bus-transceiver"
	CategoryCPU            Category = "cpu"
	CategoryVIA            Category = "via"
	CategoryACIA           Category = "acia"
	CategoryAnalog         Category = "analog"
	CategoryAdder          Category = "adder"
)

var categories = map[Category]bool{
	CategoryNone: true, CategoryGate: true, CategoryFlipFlop: true, CategoryDemux: true,
	CategoryMux: true, CategoryCounter: true, CategoryRegister: true, CategoryRAM: true,
	CategorySRAM: true, CategoryEEPROM: true, CategoryBuffer: true, CategoryBusTransceiver: true,
	CategoryCPU: true, CategoryVIA: true, CategoryACIA: true, CategoryAnalog: true,
	CategoryAdder: true,
}

// Valid reports whether c is one of the known categories (including none).
func (c Category) Valid() bool { return categories[c] }

// activeLowPrefix marks an active-low signal in a pin label.
const activeLowPrefix = "/"

// Pin is the canonical pin specification.
type Pin struct {
	Number    int       `json:"number"`
	Label     string    `json:"label"`
	Direction Direction `json:"direction"`
	Type      PinType   `json:"type"`
}

// ActiveLow reports whether the label denotes an active-low signal.
func (p Pin) ActiveLow() bool { return strings.HasPrefix(p.Label, activeLowPrefix) }

// DisplayLabel returns the label without the active-low marker and whether
// it must be drawn with an overline.
func (p Pin) DisplayLabel() (string, bool) {
	if p.ActiveLow() {
		return p.Label[len(activeLowPrefix):], true
	}
	return p.Label, false
}

// Chip is a chip record: description, category, package and ordered pins.
type Chip struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Package     string   `json:"package,omitempty"`
	Pins        []Pin    `json:"pins"` // sorted by Number
}

// Pin returns the pin with the given 1-based number.
func (c Chip) Pin(number int) (Pin, bool) {
	for _, p := range c.Pins {
		if p.Number == number {
			return p, true
		}
	}
	return Pin{}, false
}

// DefaultBodyWidth is the body width used when a package does not declare
// one, and for chips without a resolvable package (0.3" DIP row spacing).
const DefaultBodyWidth = 7.62

// Package is a DIP package outline. Dimensions are nominal millimeters.
type Package struct {
	Name       string  `toml:"-" json:"name"`
	Pins       int     `toml:"pins" json:"pins"`
	PinPitch   float64 `toml:"pin_pitch" json:"pin_pitch"`
	RowSpacing float64 `toml:"row_spacing" json:"row_spacing,omitempty"`
	BodyLength float64 `toml:"body_length" json:"body_length,omitempty"`
	BodyWidth  float64 `toml:"body_width" json:"body_width,omitempty"`
}

// BodyHeight returns the drawn height of the body: the body width when
// declared, else the row spacing, else DefaultBodyWidth.
func (p Package) BodyHeight() float64 {
	switch {
	case p.BodyWidth > 0:
		return p.BodyWidth
	case p.RowSpacing > 0:
		return p.RowSpacing
	default:
		return DefaultBodyWidth
	}
}
