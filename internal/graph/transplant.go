package graph

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lattice-ml/lattice/internal/weights"
)

// CopyTrainedFrom overwrites this graph's parameters with values from a
// snapshot, matching units by name. Source units with no same-named
// target are skipped with a notice, so transplanting between related
// architectures works as long as the shared units agree exactly: a
// matched unit must have the same parameter count, and every parameter
// must have the same shape.
func (n *Net) CopyTrainedFrom(snap *weights.Snapshot) error {
	for _, src := range snap.Units {
		id, ok := n.unitIndex[src.Name]
		if !ok {
			klog.Infof("ignoring source unit %s", src.Name)
			continue
		}
		klog.V(1).Infof("copying source unit %s", src.Name)
		target := n.units[id].Params()
		if len(target) != len(src.Params) {
			return errors.Errorf("incompatible number of parameter blobs for unit %q: source has %d, target has %d",
				src.Name, len(src.Params), len(target))
		}
		for pi, sp := range src.Params {
			tp := target[pi]
			if !tp.Shape().Equal(sp.Shape()) {
				return errors.Errorf(
					"cannot copy param %d weights from unit %q: shape mismatch; source param shape is %v, target param shape is %v; to learn this unit's parameters from scratch rather than copying from a snapshot, rename the unit",
					pi, src.Name, sp.Shape(), tp.Shape())
			}
			if err := tp.CopyFrom(sp); err != nil {
				return errors.Wrapf(err, "copying param %d of unit %q", pi, src.Name)
			}
		}
	}
	return nil
}

// Snapshot exports the graph's current parameters as a snapshot that
// CopyTrainedFrom (on this or another graph) can consume. Parameter
// tensors are cloned, so the snapshot stays stable while the graph
// keeps training.
func (n *Net) Snapshot() *weights.Snapshot {
	snap := &weights.Snapshot{NetName: n.name}
	for i, u := range n.units {
		params := u.Params()
		if len(params) == 0 {
			continue
		}
		uw := &weights.UnitWeights{Name: n.unitNames[i]}
		for _, p := range params {
			uw.Params = append(uw.Params, p.Clone())
		}
		snap.Units = append(snap.Units, uw)
	}
	return snap
}
