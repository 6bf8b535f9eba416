package netdef

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFile is the top-level structure of a network description file.
type hclFile struct {
	Nets []*hclNet `hcl:"net,block"`
}

type hclNet struct {
	Name  string     `hcl:"name,label"`
	State *hclState  `hcl:"state,block"`
	Units []*hclUnit `hcl:"unit,block"`
}

type hclState struct {
	// Phase is kept as a raw expression and resolved through cty so the
	// attribute can be omitted entirely.
	Phase  hcl.Expression `hcl:"phase,optional"`
	Level  int            `hcl:"level,optional"`
	Stages []string       `hcl:"stages,optional"`
}

type hclRule struct {
	Phase     hcl.Expression `hcl:"phase,optional"`
	MinLevel  *int           `hcl:"min_level,optional"`
	MaxLevel  *int           `hcl:"max_level,optional"`
	Stages    []string       `hcl:"stages,optional"`
	NotStages []string       `hcl:"not_stages,optional"`
}

type hclParam struct {
	Name      string   `hcl:"name,optional"`
	LRMult    *float64 `hcl:"lr_mult,optional"`
	DecayMult *float64 `hcl:"decay_mult,optional"`
	ShareMode string   `hcl:"share_mode,optional"`
}

type hclInput struct {
	Shapes hcl.Expression `hcl:"shapes"`
}

type hclInnerProduct struct {
	NumOutput int   `hcl:"num_output"`
	Bias      *bool `hcl:"bias,optional"`
}

type hclPooling struct {
	Kernel int `hcl:"kernel"`
	Stride int `hcl:"stride,optional"`
	Pad    int `hcl:"pad,optional"`
}

type hclScale struct {
	Axis int `hcl:"axis,optional"`
}

type hclUnit struct {
	Name          string           `hcl:"name,label"`
	Type          string           `hcl:"type"`
	Bottoms       []string         `hcl:"bottoms,optional"`
	Tops          []string         `hcl:"tops,optional"`
	PropagateDown []bool           `hcl:"propagate_down,optional"`
	Params        []*hclParam      `hcl:"param,block"`
	Include       []*hclRule       `hcl:"include,block"`
	Exclude       []*hclRule       `hcl:"exclude,block"`
	Input         *hclInput        `hcl:"input,block"`
	InnerProduct  *hclInnerProduct `hcl:"inner_product,block"`
	Pooling       *hclPooling      `hcl:"pooling,block"`
	Scale         *hclScale        `hcl:"scale,block"`
}

// LoadFile reads a network description from an HCL file.
func LoadFile(path string) (*NetDef, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", path)
	}
	return decodeFile(file)
}

// Parse reads a network description from HCL source bytes. The filename
// is only used in diagnostics.
func Parse(src []byte, filename string) (*NetDef, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", filename)
	}
	return decodeFile(file)
}

func decodeFile(file *hcl.File) (*NetDef, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.Wrap(diags, "decoding network description")
	}
	if len(parsed.Nets) != 1 {
		return nil, errors.Errorf("expected exactly one net block, found %d", len(parsed.Nets))
	}
	return decodeNet(parsed.Nets[0])
}

func decodeNet(h *hclNet) (*NetDef, error) {
	def := &NetDef{Name: h.Name}
	if h.State != nil {
		phase, err := phaseFromExpr(h.State.Phase)
		if err != nil {
			return nil, errors.Wrapf(err, "net %q state", h.Name)
		}
		if phase != nil {
			def.State.Phase = *phase
		}
		def.State.Level = h.State.Level
		def.State.Stages = h.State.Stages
	}
	for _, hu := range h.Units {
		u, err := decodeUnit(hu)
		if err != nil {
			return nil, err
		}
		def.Units = append(def.Units, u)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func decodeUnit(h *hclUnit) (*UnitDef, error) {
	u := &UnitDef{
		Name:          h.Name,
		Type:          h.Type,
		Bottoms:       h.Bottoms,
		Tops:          h.Tops,
		PropagateDown: h.PropagateDown,
	}
	for _, hp := range h.Params {
		mode := ShareStrict
		switch hp.ShareMode {
		case "", "strict":
		case "permissive":
			mode = SharePermissive
		default:
			return nil, errors.Errorf("unit %q: unknown share_mode %q", h.Name, hp.ShareMode)
		}
		u.Params = append(u.Params, ParamSpec{
			Name:      hp.Name,
			LRMult:    hp.LRMult,
			DecayMult: hp.DecayMult,
			ShareMode: mode,
		})
	}
	var err error
	if u.Include, err = decodeRules(h.Include, h.Name); err != nil {
		return nil, err
	}
	if u.Exclude, err = decodeRules(h.Exclude, h.Name); err != nil {
		return nil, err
	}
	if h.Input != nil {
		shapes, err := shapesFromExpr(h.Input.Shapes)
		if err != nil {
			return nil, errors.Wrapf(err, "unit %q input shapes", h.Name)
		}
		u.Input = &InputDef{Shapes: shapes}
	}
	if h.InnerProduct != nil {
		u.InnerProduct = &InnerProductDef{NumOutput: h.InnerProduct.NumOutput, Bias: h.InnerProduct.Bias}
	}
	if h.Pooling != nil {
		u.Pooling = &PoolingDef{Kernel: h.Pooling.Kernel, Stride: h.Pooling.Stride, Pad: h.Pooling.Pad}
	}
	if h.Scale != nil {
		u.Scale = &ScaleDef{Axis: h.Scale.Axis}
	}
	return u, nil
}

func decodeRules(rules []*hclRule, unitName string) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for _, hr := range rules {
		phase, err := phaseFromExpr(hr.Phase)
		if err != nil {
			return nil, errors.Wrapf(err, "unit %q rule", unitName)
		}
		out = append(out, Rule{
			Phase:     phase,
			MinLevel:  hr.MinLevel,
			MaxLevel:  hr.MaxLevel,
			Stages:    hr.Stages,
			NotStages: hr.NotStages,
		})
	}
	return out, nil
}

// phaseFromExpr resolves an optional phase attribute to a Phase.
func phaseFromExpr(expr hcl.Expression) (*Phase, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "evaluating phase")
	}
	if val.IsNull() {
		return nil, nil
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return nil, errors.Wrap(err, "phase must be a string")
	}
	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return nil, err
	}
	p, ok := ParsePhase(s)
	if !ok {
		return nil, errors.Errorf("unknown phase %q", s)
	}
	return &p, nil
}

// shapesFromExpr resolves a shapes attribute (a list of shape lists).
func shapesFromExpr(expr hcl.Expression) ([][]int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "evaluating shapes")
	}
	val, err := convert.Convert(val, cty.List(cty.List(cty.Number)))
	if err != nil {
		return nil, errors.Wrap(err, "shapes must be a list of integer lists")
	}
	var shapes [][]int
	if err := gocty.FromCtyValue(val, &shapes); err != nil {
		return nil, err
	}
	return shapes, nil
}
