package matio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// ReadFile parses every variable in the MAT-file at path.
func ReadFile(path string) ([]*Variable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// ReadVariable returns the named numeric variable from the MAT-file at path.
func ReadVariable(path, name string) (*Variable, error) {
	vars, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		if v.Name != name {
			continue
		}
		if !v.numeric() {
			return nil, fmt.Errorf("%w: %s: variable %q has unsupported class %d", ErrFormat, path, name, v.Class)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, name, path)
}

// Parse decodes a whole MAT-file image.
func Parse(data []byte) ([]*Variable, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrFormat)
	}

	var order binary.ByteOrder
	switch string(data[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: not a level 5 MAT-file", ErrFormat)
	}

	var vars []*Variable
	buf := data[headerSize:]
	for len(buf) > 0 {
		typ, body, rest, err := nextElement(order, buf)
		if err != nil {
			return nil, err
		}
		buf = rest

		if typ == miCOMPRESSED {
			zr, err := zlib.NewReader(bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			inflated, err := io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			if typ, body, _, err = nextElement(order, inflated); err != nil {
				return nil, err
			}
		}

		if typ != miMATRIX {
			continue
		}
		v, err := parseMatrix(order, body)
		if err != nil {
			return nil, err
		}
		if v != nil {
			vars = append(vars, v)
		}
	}
	return vars, nil
}

// nextElement splits the first data element off buf. Elements other than
// compressed ones are padded to 8 bytes.
func nextElement(order binary.ByteOrder, buf []byte) (typ uint32, body, rest []byte, err error) {
	if len(buf) < 8 {
		return 0, nil, nil, fmt.Errorf("%w: truncated element tag", ErrFormat)
	}

	first := order.Uint32(buf[0:4])
	if n := first >> 16; n != 0 {
		// Small data element: size and type share the first word.
		if n > 4 {
			return 0, nil, nil, fmt.Errorf("%w: small element of %d bytes", ErrFormat, n)
		}
		return first & 0xffff, buf[4 : 4+n], buf[8:], nil
	}

	typ = first
	n := uint64(order.Uint32(buf[4:8]))
	end := 8 + n
	if end > uint64(len(buf)) {
		return 0, nil, nil, fmt.Errorf("%w: element of %d bytes overruns data", ErrFormat, n)
	}
	body = buf[8:end]
	if typ != miCOMPRESSED {
		end = (end + 7) &^ 7
		if end > uint64(len(buf)) {
			end = uint64(len(buf))
		}
	}
	return typ, body, buf[end:], nil
}

// parseMatrix decodes the sub-elements of a miMATRIX element. Empty
// elements yield a nil variable.
func parseMatrix(order binary.ByteOrder, body []byte) (*Variable, error) {
	if len(body) == 0 {
		return nil, nil
	}

	typ, flags, body, err := nextElement(order, body)
	if err != nil {
		return nil, err
	}
	if typ != miUINT32 || len(flags) < 8 {
		return nil, fmt.Errorf("%w: bad array flags", ErrFormat)
	}
	word := order.Uint32(flags[0:4])
	class := int(word & 0xff)

	typ, dimsRaw, body, err := nextElement(order, body)
	if err != nil {
		return nil, err
	}
	dims, err := decodeInts(order, typ, dimsRaw)
	if err != nil {
		return nil, err
	}

	_, nameRaw, body, err := nextElement(order, body)
	if err != nil {
		return nil, err
	}

	v := &Variable{Name: string(nameRaw), Class: class}
	if !v.numeric() {
		return v, nil
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("%w: %q has %d dimensions", ErrFormat, v.Name, len(dims))
	}
	if word&flagComplex != 0 {
		return nil, fmt.Errorf("%w: %q is complex", ErrFormat, v.Name)
	}
	v.Rows, v.Cols = dims[0], dims[1]

	if class == mxSPARSE {
		return v, parseSparse(order, v, body, word&flagLogical != 0)
	}

	typ, realRaw, _, err := nextElement(order, body)
	if err != nil {
		return nil, err
	}
	if v.Data, err = decodeFloats(order, typ, realRaw); err != nil {
		return nil, err
	}
	if len(v.Data) != v.Rows*v.Cols {
		return nil, fmt.Errorf("%w: %q holds %d values for %dx%d", ErrFormat, v.Name, len(v.Data), v.Rows, v.Cols)
	}
	return v, nil
}

func parseSparse(order binary.ByteOrder, v *Variable, body []byte, logical bool) error {
	v.Sparse = true

	typ, raw, body, err := nextElement(order, body)
	if err != nil {
		return err
	}
	if v.RowIndex, err = decodeInts(order, typ, raw); err != nil {
		return err
	}

	typ, raw, body, err = nextElement(order, body)
	if err != nil {
		return err
	}
	if v.ColPtr, err = decodeInts(order, typ, raw); err != nil {
		return err
	}
	if len(v.ColPtr) != v.Cols+1 {
		return fmt.Errorf("%w: %q column pointers", ErrFormat, v.Name)
	}

	nnz := v.ColPtr[v.Cols]
	if nnz > len(v.RowIndex) {
		return fmt.Errorf("%w: %q declares %d non-zeros", ErrFormat, v.Name, nnz)
	}
	if v.ColPtr[0] != 0 {
		return fmt.Errorf("%w: %q column pointers start at %d", ErrFormat, v.Name, v.ColPtr[0])
	}
	for j := 0; j < v.Cols; j++ {
		if v.ColPtr[j] > v.ColPtr[j+1] {
			return fmt.Errorf("%w: %q column pointer %d decreases", ErrFormat, v.Name, j+1)
		}
	}
	v.RowIndex = v.RowIndex[:nnz]

	if len(body) == 0 && logical {
		v.Values = make([]float64, nnz)
		for k := range v.Values {
			v.Values[k] = 1
		}
		return nil
	}

	typ, raw, _, err = nextElement(order, body)
	if err != nil {
		return err
	}
	if v.Values, err = decodeFloats(order, typ, raw); err != nil {
		return err
	}
	if len(v.Values) < nnz {
		return fmt.Errorf("%w: %q holds %d of %d non-zeros", ErrFormat, v.Name, len(v.Values), nnz)
	}
	v.Values = v.Values[:nnz]

	for _, i := range v.RowIndex {
		if i < 0 || i >= v.Rows {
			return fmt.Errorf("%w: %q row index %d out of range", ErrFormat, v.Name, i)
		}
	}
	return nil
}

func decodeInts(order binary.ByteOrder, typ uint32, raw []byte) ([]int, error) {
	vals, err := decodeFloats(order, typ, raw)
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(vals))
	for i, f := range vals {
		ints[i] = int(f)
	}
	return ints, nil
}

func decodeFloats(order binary.ByteOrder, typ uint32, raw []byte) ([]float64, error) {
	var size int
	switch typ {
	case miINT8, miUINT8:
		size = 1
	case miINT16, miUINT16:
		size = 2
	case miINT32, miUINT32, miSINGLE:
		size = 4
	case miDOUBLE, miINT64, miUINT64:
		size = 8
	default:
		return nil, fmt.Errorf("%w: unsupported data type %d", ErrFormat, typ)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrFormat, len(raw), size)
	}

	out := make([]float64, len(raw)/size)
	for i := range out {
		b := raw[i*size : (i+1)*size]
		switch typ {
		case miINT8:
			out[i] = float64(int8(b[0]))
		case miUINT8:
			out[i] = float64(b[0])
		case miINT16:
			out[i] = float64(int16(order.Uint16(b)))
		case miUINT16:
			out[i] = float64(order.Uint16(b))
		case miINT32:
			out[i] = float64(int32(order.Uint32(b)))
		case miUINT32:
			out[i] = float64(order.Uint32(b))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case miDOUBLE:
			out[i] = math.Float64frombits(order.Uint64(b))
		case miINT64:
			out[i] = float64(int64(order.Uint64(b)))
		case miUINT64:
			out[i] = float64(order.Uint64(b))
		}
	}
	return out, nil
}
