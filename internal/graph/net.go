package graph

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/unit"
)

// Net is a live, executable graph: an ordered unit sequence wired to a
// central buffer registry. The unit order is always a valid topological
// order of the buffer-dependency graph, because construction resolves
// every bottom against previously produced tops.
//
// A Net exclusively owns its buffers and parameters. Accessors hand out
// non-owning references that must not outlive the Net. A single Net
// instance is not safe for concurrent use; independent instances share
// no mutable state.
type Net struct {
	name string

	units            []unit.Unit
	unitNames        []string
	unitNeedBackward []bool

	buffers            []*tensor.RawTensor
	bufferNames        []string
	bufferNeedBackward []bool

	// Per-unit resolved buffer references and registry indices.
	bottoms            [][]*tensor.RawTensor
	tops               [][]*tensor.RawTensor
	bottomIDs          [][]int
	topIDs             [][]int
	bottomNeedBackward [][]bool
	paramIDs           [][]int

	inputIDs  []int
	outputIDs []int

	// Flat parameter registry, one entry per unit parameter slot.
	params            []*tensor.RawTensor
	paramDisplayNames []string
	paramOwners       []int    // -1 for owners, owner's net param id for sharers
	paramUnitSlots    [][2]int // net param id -> (unit index, slot index)

	// Learnable (deduplicated) parameters and their multipliers.
	learnableParams []*tensor.RawTensor
	learnableIDs    []int // net param id -> learnable index
	hasLR           []bool
	lrMults         []float64
	hasDecay        []bool
	decayMults      []float64

	bufferIndex map[string]int
	unitIndex   map[string]int

	memoryElems int64
}

// buildState is the bookkeeping local to one construction pass.
type buildState struct {
	bufferIdx  map[string]int      // buffer name -> registry index
	available  map[string]struct{} // produced but not yet consumed
	paramNames map[string]int      // shared param name -> owning net param id
}

// NewNet resolves a description into a live graph: the description is
// filtered by its runtime state, fan-out is materialized through split
// units, and the resulting unit list is built in declaration order.
// Any structural inconsistency aborts construction with a descriptive
// error; there is no partial-graph fallback.
func NewNet(def *netdef.NetDef) (*Net, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	filtered, err := filterNet(def)
	if err != nil {
		return nil, err
	}
	resolved := insertSplits(filtered)

	n := &Net{
		name:        resolved.Name,
		bufferIndex: make(map[string]int),
		unitIndex:   make(map[string]int),
	}
	bs := &buildState{
		bufferIdx:  make(map[string]int),
		available:  make(map[string]struct{}),
		paramNames: make(map[string]int),
	}

	for i, ud := range resolved.Units {
		u, err := unit.New(ud)
		if err != nil {
			return nil, err
		}
		klog.V(1).Infof("creating unit %s (%s)", ud.Name, ud.Type)
		n.units = append(n.units, u)
		n.unitNames = append(n.unitNames, ud.Name)
		n.bottomIDs = append(n.bottomIDs, nil)
		n.topIDs = append(n.topIDs, nil)
		n.bottomNeedBackward = append(n.bottomNeedBackward, nil)
		n.paramIDs = append(n.paramIDs, nil)

		needBackward := false
		for bi := range ud.Bottoms {
			propagate, err := n.appendBottom(ud, i, bi, bs)
			if err != nil {
				return nil, err
			}
			needBackward = needBackward || propagate
		}
		for ti := range ud.Tops {
			if err := n.appendTop(ud, i, ti, bs); err != nil {
				return nil, err
			}
			// Collect input-unit tops as graph inputs.
			if ud.Type == unit.TypeInput {
				n.inputIDs = append(n.inputIDs, len(n.buffers)-1)
			}
		}
		n.bottoms = append(n.bottoms, n.buffersAt(n.bottomIDs[i]))
		n.tops = append(n.tops, n.buffersAt(n.topIDs[i]))

		if err := u.SetUp(n.bottoms[i], n.tops[i]); err != nil {
			return nil, errors.Wrapf(err, "setting up unit %q", ud.Name)
		}
		for _, tid := range n.topIDs[i] {
			n.memoryElems += int64(n.buffers[tid].NumElements())
		}
		klog.V(1).Infof("setting up %s; memory required for activations: %s",
			ud.Name, humanize.Bytes(uint64(n.memoryElems)*uint64(tensor.Float32.Size())))

		paramBlobs := u.Params()
		if len(ud.Params) > len(paramBlobs) {
			return nil, errors.Errorf("too many parameter specs for unit %q: %d specs, %d parameter blobs",
				ud.Name, len(ud.Params), len(paramBlobs))
		}
		for pi := range paramBlobs {
			ownedTrainable, err := n.appendParam(ud, i, pi, bs)
			if err != nil {
				return nil, err
			}
			needBackward = needBackward || ownedTrainable
		}

		n.unitNeedBackward = append(n.unitNeedBackward, needBackward)
		if needBackward {
			for _, tid := range n.topIDs[i] {
				n.bufferNeedBackward[tid] = true
			}
		}
	}

	// Whatever was produced but never consumed is a graph output,
	// ordered by when it was last produced so in-place rewrites count
	// at their final writer.
	lastProducer := make(map[int]int)
	for i := range n.units {
		for _, tid := range n.topIDs[i] {
			lastProducer[tid] = i
		}
	}
	emitted := make(map[int]bool)
	for i := range n.units {
		for _, tid := range n.topIDs[i] {
			if lastProducer[tid] != i || emitted[tid] {
				continue
			}
			emitted[tid] = true
			if _, ok := bs.available[n.bufferNames[tid]]; ok {
				klog.V(1).Infof("this network produces output %s", n.bufferNames[tid])
				n.outputIDs = append(n.outputIDs, tid)
			}
		}
	}
	for id, name := range n.bufferNames {
		n.bufferIndex[name] = id
	}
	for id, name := range n.unitNames {
		n.unitIndex[name] = id
	}
	klog.V(1).Infof("network %s initialized: %d units, %d buffers, memory required for activations: %s",
		n.name, len(n.units), len(n.buffers),
		humanize.Bytes(uint64(n.memoryElems)*uint64(tensor.Float32.Size())))
	return n, nil
}

// appendBottom resolves one declared input against the available
// buffers. It reports whether gradient should propagate to this bottom:
// the producing buffer's flag unless the declaration overrides this
// bottom index.
func (n *Net) appendBottom(ud *netdef.UnitDef, i, bi int, bs *buildState) (bool, error) {
	name := ud.Bottoms[bi]
	if _, ok := bs.available[name]; !ok {
		return false, errors.Errorf("unknown bottom buffer %q (unit %q, bottom index %d)", name, ud.Name, bi)
	}
	id := bs.bufferIdx[name]
	klog.V(1).Infof("%s <- %s", ud.Name, name)
	n.bottomIDs[i] = append(n.bottomIDs[i], id)
	delete(bs.available, name)

	propagate := n.bufferNeedBackward[id]
	if bi < len(ud.PropagateDown) {
		propagate = ud.PropagateDown[bi]
	}
	n.bottomNeedBackward[i] = append(n.bottomNeedBackward[i], propagate)
	return propagate, nil
}

// appendTop resolves one declared output: in-place aliasing when the
// name matches one of this unit's own bottoms, a fatal duplicate
// otherwise if the name already exists, and a fresh registration in the
// normal case.
func (n *Net) appendTop(ud *netdef.UnitDef, i, ti int, bs *buildState) error {
	name := ud.Tops[ti]
	inPlace := false
	for _, b := range ud.Bottoms {
		if b == name {
			inPlace = true
			break
		}
	}
	switch {
	case inPlace:
		// In-place computation: the top is the bottom's storage.
		klog.V(1).Infof("%s -> %s (in-place)", ud.Name, name)
		n.topIDs[i] = append(n.topIDs[i], bs.bufferIdx[name])
	default:
		if _, dup := bs.bufferIdx[name]; dup {
			return errors.Errorf("top buffer %q produced by multiple sources (unit %q)", name, ud.Name)
		}
		klog.V(1).Infof("%s -> %s", ud.Name, name)
		buf, err := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
		if err != nil {
			return errors.Wrapf(err, "allocating top buffer %q", name)
		}
		id := len(n.buffers)
		n.buffers = append(n.buffers, buf)
		n.bufferNames = append(n.bufferNames, name)
		n.bufferNeedBackward = append(n.bufferNeedBackward, false)
		bs.bufferIdx[name] = id
		n.topIDs[i] = append(n.topIDs[i], id)
	}
	bs.available[name] = struct{}{}
	return nil
}

// appendParam resolves one parameter slot: the first unit to introduce
// a name owns the parameter; later units share the owner's storage
// after a compatibility check. It reports whether the slot is an owned,
// trainable parameter.
func (n *Net) appendParam(ud *netdef.UnitDef, i, pi int, bs *buildState) (bool, error) {
	var spec netdef.ParamSpec
	if pi < len(ud.Params) {
		spec = ud.Params[pi]
	}
	displayName := strconv.Itoa(pi)
	if spec.Name != "" {
		displayName = spec.Name
	}
	n.paramDisplayNames = append(n.paramDisplayNames, displayName)

	netParamID := len(n.params)
	blob := n.units[i].Params()[pi]
	n.params = append(n.params, blob)
	n.paramIDs[i] = append(n.paramIDs[i], netParamID)
	n.paramUnitSlots = append(n.paramUnitSlots, [2]int{i, pi})

	ownerNetID := -1
	if spec.Name != "" {
		if id, ok := bs.paramNames[spec.Name]; ok {
			ownerNetID = id
		}
	}
	if ownerNetID < 0 {
		// This unit owns the parameter: it is either anonymous or
		// explicitly given a name we have not seen before.
		n.paramOwners = append(n.paramOwners, -1)
		if spec.Name != "" {
			bs.paramNames[spec.Name] = netParamID
		}
		learnableID := len(n.learnableParams)
		n.learnableParams = append(n.learnableParams, blob)
		n.learnableIDs = append(n.learnableIDs, learnableID)
		n.hasLR = append(n.hasLR, spec.LRMult != nil)
		n.hasDecay = append(n.hasDecay, spec.DecayMult != nil)
		lr, decay := 1.0, 1.0
		if spec.LRMult != nil {
			lr = *spec.LRMult
		}
		if spec.DecayMult != nil {
			decay = *spec.DecayMult
		}
		n.lrMults = append(n.lrMults, lr)
		n.decayMults = append(n.decayMults, decay)
		return lr != 0, nil
	}

	// Named parameter seen before: share the owner's storage.
	n.paramOwners = append(n.paramOwners, ownerNetID)
	ownerUnit, ownerSlot := n.paramUnitSlots[ownerNetID][0], n.paramUnitSlots[ownerNetID][1]
	klog.V(1).Infof("sharing parameters %q owned by unit %q, param index %d",
		spec.Name, n.unitNames[ownerUnit], ownerSlot)
	ownerBlob := n.units[ownerUnit].Params()[ownerSlot]

	if spec.ShareMode == netdef.SharePermissive {
		// Permissive checking: only the element counts must agree.
		if blob.NumElements() != ownerBlob.NumElements() {
			return false, errors.Errorf(
				"cannot share param %q owned by unit %q with unit %q: count mismatch; owner param shape is %v, sharing unit param shape is %v",
				spec.Name, n.unitNames[ownerUnit], ud.Name, ownerBlob.Shape(), blob.Shape())
		}
	} else if !blob.Shape().Equal(ownerBlob.Shape()) {
		return false, errors.Errorf(
			"cannot share param %q owned by unit %q with unit %q: shape mismatch; owner param shape is %v, sharing unit expects shape %v",
			spec.Name, n.unitNames[ownerUnit], ud.Name, ownerBlob.Shape(), blob.Shape())
	}

	sharer, ok := n.units[i].(unit.ParamSharer)
	if !ok {
		return false, errors.Errorf("unit %q (type %s) does not support parameter sharing",
			ud.Name, n.units[i].Type())
	}
	if err := sharer.ShareParam(pi, ownerBlob); err != nil {
		return false, errors.Wrapf(err, "sharing param %q with unit %q", spec.Name, ud.Name)
	}
	n.params[netParamID] = ownerBlob

	learnableID := n.learnableIDs[ownerNetID]
	n.learnableIDs = append(n.learnableIDs, learnableID)
	if spec.LRMult != nil {
		if n.hasLR[learnableID] && *spec.LRMult != n.lrMults[learnableID] {
			return false, errors.Errorf("shared param %q has mismatched lr_mult (%v vs %v)",
				spec.Name, *spec.LRMult, n.lrMults[learnableID])
		}
		n.hasLR[learnableID] = true
		n.lrMults[learnableID] = *spec.LRMult
	}
	if spec.DecayMult != nil {
		if n.hasDecay[learnableID] && *spec.DecayMult != n.decayMults[learnableID] {
			return false, errors.Errorf("shared param %q has mismatched decay_mult (%v vs %v)",
				spec.Name, *spec.DecayMult, n.decayMults[learnableID])
		}
		n.hasDecay[learnableID] = true
		n.decayMults[learnableID] = *spec.DecayMult
	}
	return false, nil
}

func (n *Net) buffersAt(ids []int) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(ids))
	for j, id := range ids {
		out[j] = n.buffers[id]
	}
	return out
}
