package graph

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// ForwardFromTo runs units start through end inclusive, in topological
// order, and returns the accumulated loss contribution. It assumes the
// buffers feeding unit start are already populated; running a suffix
// without first running its prefix reads whatever the earlier buffers
// currently hold.
func (n *Net) ForwardFromTo(start, end int) (float64, error) {
	if start < 0 || start > end || end >= len(n.units) {
		return 0, errors.Errorf("forward range [%d, %d] is outside the unit range [0, %d]",
			start, end, len(n.units)-1)
	}
	var loss float64
	for i := start; i <= end; i++ {
		l, err := n.units[i].Forward(n.bottoms[i], n.tops[i])
		if err != nil {
			return 0, errors.Wrapf(err, "forward of unit %q", n.unitNames[i])
		}
		loss += l
	}
	return loss, nil
}

// Forward runs the whole graph and returns the output buffers along
// with the total loss. The returned buffers are owned by the Net and
// are overwritten by the next pass.
func (n *Net) Forward() ([]*tensor.RawTensor, float64, error) {
	if len(n.units) == 0 {
		return nil, 0, nil
	}
	loss, err := n.ForwardFromTo(0, len(n.units)-1)
	if err != nil {
		return nil, 0, err
	}
	return n.OutputBuffers(), loss, nil
}

// ReshapeAll propagates buffer dimensions through every unit in
// topological order without computing any values. Call it after
// resizing an input buffer so downstream buffers pick up the new
// dimensions.
func (n *Net) ReshapeAll() error {
	for i, u := range n.units {
		if err := u.Reshape(n.bottoms[i], n.tops[i]); err != nil {
			return errors.Wrapf(err, "reshape of unit %q", n.unitNames[i])
		}
	}
	return nil
}
