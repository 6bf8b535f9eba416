package netdef

import "fmt"

// Phase selects the training or inference variant of a network.
type Phase int

// Network phases.
const (
	Train Phase = iota
	Test
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase converts a phase name into a Phase.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "train", "TRAIN":
		return Train, true
	case "test", "TEST":
		return Test, true
	default:
		return 0, false
	}
}

// State is the runtime state a network is instantiated under. It is
// evaluated once against every unit's include/exclude rules during
// filtering and never consulted again after build.
type State struct {
	Phase  Phase
	Level  int
	Stages []string
}

// Rule is a predicate over State. Every set field must hold for the
// rule to be met; an empty rule is met by any state.
type Rule struct {
	Phase     *Phase   // required phase, if set
	MinLevel  *int     // state level must be >= MinLevel, if set
	MaxLevel  *int     // state level must be <= MaxLevel, if set
	Stages    []string // all must be active in the state
	NotStages []string // none may be active in the state
}

// ShareMode controls how a shared parameter's shape is checked against
// its owner.
type ShareMode int

// Share modes. Strict requires identical shapes; Permissive only
// requires equal element counts.
const (
	ShareStrict ShareMode = iota
	SharePermissive
)

// String returns a human-readable share mode name.
func (m ShareMode) String() string {
	if m == SharePermissive {
		return "permissive"
	}
	return "strict"
}

// ParamSpec configures one parameter slot of a unit. All fields are
// optional; a nil multiplier means "not specified", which matters for
// shared-parameter conflict detection.
type ParamSpec struct {
	Name      string    // shared-parameter name; empty means unit-owned
	LRMult    *float64  // learning rate multiplier
	DecayMult *float64  // weight decay multiplier
	ShareMode ShareMode // shape checking mode when sharing
}

// InputDef configures an "input" unit: one shape per declared top.
type InputDef struct {
	Shapes [][]int
}

// InnerProductDef configures an "inner_product" unit.
type InnerProductDef struct {
	NumOutput int
	Bias      *bool // defaults to true
}

// HasBias reports whether the unit should carry a bias parameter.
func (d *InnerProductDef) HasBias() bool {
	return d.Bias == nil || *d.Bias
}

// PoolingDef configures a "pooling" unit.
type PoolingDef struct {
	Kernel int
	Stride int // defaults to Kernel
	Pad    int
}

// ScaleDef configures a "scale" unit. The scale parameter spans the
// axis dimension of the input (axis 1, the channel axis, by default).
type ScaleDef struct {
	Axis int
}

// UnitDef declares one unit of the network: its operator type, buffer
// wiring, parameter slots, and conditional-inclusion rules.
type UnitDef struct {
	Name    string
	Type    string
	Bottoms []string // input buffer names, in order
	Tops    []string // output buffer names, in order

	Params  []ParamSpec
	Include []Rule
	Exclude []Rule

	// PropagateDown overrides gradient propagation per bottom index.
	// Bottoms beyond the list inherit their producing buffer's flag.
	PropagateDown []bool

	// Type-specific settings; only the block matching Type is consulted.
	Input        *InputDef
	InnerProduct *InnerProductDef
	Pooling      *PoolingDef
	Scale        *ScaleDef
}

// Clone returns a deep copy of the unit declaration.
func (d *UnitDef) Clone() *UnitDef {
	c := *d
	c.Bottoms = append([]string(nil), d.Bottoms...)
	c.Tops = append([]string(nil), d.Tops...)
	c.Params = append([]ParamSpec(nil), d.Params...)
	c.Include = append([]Rule(nil), d.Include...)
	c.Exclude = append([]Rule(nil), d.Exclude...)
	c.PropagateDown = append([]bool(nil), d.PropagateDown...)
	return &c
}

// NetDef is the declarative description of a network: an ordered unit
// list plus the runtime state it is instantiated under.
type NetDef struct {
	Name  string
	State State
	Units []*UnitDef
}

// Clone returns a deep copy of the description.
func (d *NetDef) Clone() *NetDef {
	c := &NetDef{Name: d.Name, State: d.State}
	c.State.Stages = append([]string(nil), d.State.Stages...)
	c.Units = make([]*UnitDef, len(d.Units))
	for i, u := range d.Units {
		c.Units[i] = u.Clone()
	}
	return c
}
