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

// SaveOptions configures snapshot serialization.
type SaveOptions struct {
	// HalfPrecision stores float32 parameters as float16 payload,
	// halving file size at reduced precision. Tensors are converted
	// back to float32 on load.
	HalfPrecision bool
}

// Save writes a snapshot to a .ltw file.
func Save(path string, snap *Snapshot, opts SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(w, snap, opts); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return w.Flush()
}

// Write serializes a snapshot to a stream.
func Write(w io.Writer, snap *Snapshot, opts SaveOptions) error {
	header := Header{FormatVersion: FormatVersion, NetName: snap.NetName}

	// Lay out the payload and convert tensors up front.
	var payload [][]byte
	var offset int64
	for _, uw := range snap.Units {
		meta := UnitMeta{Name: uw.Name}
		for _, p := range uw.Params {
			data, dtype, err := encodeTensor(p, opts)
			if err != nil {
				return errors.Wrapf(err, "unit %q", uw.Name)
			}
			meta.Params = append(meta.Params, TensorMeta{
				DType:  dtype.String(),
				Shape:  p.Shape().Clone(),
				Offset: offset,
				Size:   int64(len(data)),
			})
			payload = append(payload, data)
			offset += int64(len(data))
		}
		header.Units = append(header.Units, meta)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "encoding header")
	}

	if _, err := w.Write([]byte(Magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return err
	}
	if _, err := w.Write(headerJSON); err != nil {
		return err
	}
	for _, data := range payload {
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// encodeTensor renders one tensor's payload bytes, converting float32
// to float16 when half precision is requested.
func encodeTensor(p *tensor.RawTensor, opts SaveOptions) ([]byte, tensor.DataType, error) {
	if opts.HalfPrecision && p.DType() == tensor.Float32 {
		half, err := tensor.NewRaw(p.Shape(), tensor.Float16)
		if err != nil {
			return nil, 0, err
		}
		vals, err := p.ToFloat32()
		if err != nil {
			return nil, 0, err
		}
		if err := half.FromFloat32(vals); err != nil {
			return nil, 0, err
		}
		return half.Data(), tensor.Float16, nil
	}
	data := make([]byte, p.ByteSize())
	copy(data, p.Data())
	return data, p.DType(), nil
}
