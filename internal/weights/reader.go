package weights

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Load reads a snapshot from a .ltw file. Half-precision payloads are
// converted back to float32 tensors.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	snap, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return snap, nil
}

// Read deserializes a snapshot from a stream.
func Read(r io.Reader) (*Snapshot, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if string(magic[:]) != Magic {
		return nil, errors.Errorf("bad magic %q, want %q", magic[:], Magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, errors.Wrap(err, "reading version")
	}
	if version != FormatVersion {
		return nil, errors.Errorf("unsupported format version %d", version)
	}

	var headerLen uint64
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return nil, errors.Wrap(err, "reading header length")
	}
	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, errors.Wrap(err, "decoding header")
	}

	snap := &Snapshot{NetName: header.NetName}
	var expect int64
	for _, um := range header.Units {
		uw := &UnitWeights{Name: um.Name}
		for pi, pm := range um.Params {
			if pm.Offset != expect {
				return nil, errors.Errorf("unit %q param %d: offset %d out of order, want %d",
					um.Name, pi, pm.Offset, expect)
			}
			dtype, ok := tensor.ParseDataType(pm.DType)
			if !ok {
				return nil, errors.Errorf("unit %q param %d: unknown dtype %q", um.Name, pi, pm.DType)
			}
			raw, err := tensor.NewRaw(tensor.Shape(pm.Shape), dtype)
			if err != nil {
				return nil, errors.Wrapf(err, "unit %q param %d", um.Name, pi)
			}
			if int64(raw.ByteSize()) != pm.Size {
				return nil, errors.Errorf("unit %q param %d: payload size %d does not match shape %v (%s)",
					um.Name, pi, pm.Size, pm.Shape, pm.DType)
			}
			if _, err := io.ReadFull(r, raw.Data()); err != nil {
				return nil, errors.Wrapf(err, "unit %q param %d payload", um.Name, pi)
			}
			expect += pm.Size

			if dtype == tensor.Float16 {
				raw, err = upconvert(raw)
				if err != nil {
					return nil, errors.Wrapf(err, "unit %q param %d", um.Name, pi)
				}
			}
			uw.Params = append(uw.Params, raw)
		}
		snap.Units = append(snap.Units, uw)
	}
	return snap, nil
}

// upconvert converts a float16 tensor to float32.
func upconvert(half *tensor.RawTensor) (*tensor.RawTensor, error) {
	full, err := tensor.NewRaw(half.Shape(), tensor.Float32)
	if err != nil {
		return nil, err
	}
	vals, err := half.ToFloat32()
	if err != nil {
		return nil, err
	}
	if err := full.FromFloat32(vals); err != nil {
		return nil, err
	}
	return full, nil
}
