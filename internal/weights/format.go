package weights

// The .ltw format: a fixed preamble, a JSON header describing every
// parameter tensor, then the raw little-endian tensor payload.
//
//	[4]byte  magic "LTWS"
//	uint32   format version
//	uint64   header length in bytes
//	[]byte   JSON header
//	[]byte   tensor payload, tensors in header order
const (
	Magic         = "LTWS"
	FormatVersion = 1
)

// Header is the JSON header of a .ltw file.
type Header struct {
	FormatVersion int        `json:"format_version"`
	NetName       string     `json:"net_name"`
	Units         []UnitMeta `json:"units"`
}

// UnitMeta describes one unit's parameters in the file.
type UnitMeta struct {
	Name   string       `json:"name"`
	Params []TensorMeta `json:"params"`
}

// TensorMeta describes one parameter tensor in the payload.
type TensorMeta struct {
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the payload
	Size   int64  `json:"size"`   // bytes
}
