package graph

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/unit"
)

// topRef identifies one produced top: the producing unit's index in the
// filtered description and the top's position within that unit.
type topRef struct {
	unitIdx int
	topIdx  int
}

// insertSplits rewrites a filtered description so that every buffer
// consumed by more than one unit is fanned out through an explicit
// split unit, leaving each consumer a uniquely-owned copy. After this
// pass every buffer has at most one consumer, which is what the build
// pass relies on to reject duplicate producers.
//
// With in-place chains the last writer of a name is the producer of
// record, so the split lands after the final in-place rewrite.
func insertSplits(def *netdef.NetDef) *netdef.NetDef {
	// lastTop: buffer name -> producer of record.
	// bottomSource: consumer bottom -> producing top.
	// consumerCount: producing top -> number of consumers.
	lastTop := map[string]topRef{}
	bottomSource := map[topRef]topRef{}
	consumerCount := map[topRef]int{}
	unitNames := make([]string, len(def.Units))

	for i, u := range def.Units {
		unitNames[i] = u.Name
		for j, bottom := range u.Bottoms {
			src, ok := lastTop[bottom]
			if !ok {
				// Unknown bottoms are left untouched; the build pass
				// reports them with full context.
				continue
			}
			bottomSource[topRef{i, j}] = src
			consumerCount[src]++
		}
		for j, top := range u.Tops {
			lastTop[top] = topRef{i, j}
		}
	}

	out := &netdef.NetDef{Name: def.Name, State: def.State}
	out.State.Stages = append([]string(nil), def.State.Stages...)
	splitSeen := map[topRef]int{} // running consumer ordinal per fanned-out top

	for i, u := range def.Units {
		c := u.Clone()
		for j := range c.Bottoms {
			src, ok := bottomSource[topRef{i, j}]
			if !ok || consumerCount[src] <= 1 {
				continue
			}
			idx := splitSeen[src]
			splitSeen[src]++
			c.Bottoms[j] = splitBufferName(unitNames[src.unitIdx], c.Bottoms[j], src.topIdx, idx)
		}
		out.Units = append(out.Units, c)
		for j, top := range u.Tops {
			src := topRef{i, j}
			n := consumerCount[src]
			if n <= 1 {
				continue
			}
			out.Units = append(out.Units, makeSplitUnit(u.Name, top, j, n))
		}
	}
	return out
}

// makeSplitUnit builds the generated split unit for one fanned-out top.
func makeSplitUnit(unitName, bufferName string, topIdx, consumers int) *netdef.UnitDef {
	s := &netdef.UnitDef{
		Name:    splitUnitName(unitName, bufferName, topIdx),
		Type:    unit.TypeSplit,
		Bottoms: []string{bufferName},
	}
	for k := 0; k < consumers; k++ {
		s.Tops = append(s.Tops, splitBufferName(unitName, bufferName, topIdx, k))
	}
	return s
}

func splitUnitName(unitName, bufferName string, topIdx int) string {
	return fmt.Sprintf("%s_%s_%d_split", bufferName, unitName, topIdx)
}

func splitBufferName(unitName, bufferName string, topIdx, splitIdx int) string {
	return fmt.Sprintf("%s_%s_%d_split_%d", bufferName, unitName, topIdx, splitIdx)
}
