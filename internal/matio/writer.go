package matio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Write encodes vars as an uncompressed little-endian MAT-file.
func Write(w io.Writer, vars ...*Variable) error {
	return write(w, false, vars)
}

// WriteCompressed encodes vars with every array zlib-compressed.
func WriteCompressed(w io.Writer, vars ...*Variable) error {
	return write(w, true, vars)
}

func write(w io.Writer, compress bool, vars []*Variable) error {
	var out bytes.Buffer
	out.Write(header())

	for _, v := range vars {
		elem, err := encodeMatrix(v)
		if err != nil {
			return err
		}
		if !compress {
			out.Write(elem)
			continue
		}

		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		if _, err := zw.Write(elem); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		writeTag(&out, miCOMPRESSED, z.Len())
		out.Write(z.Bytes())
	}

	_, err := w.Write(out.Bytes())
	return err
}

func header() []byte {
	h := bytes.Repeat([]byte{' '}, headerSize)
	copy(h, headerBanner)
	// Subsystem data offset is left zeroed.
	for i := 116; i < 124; i++ {
		h[i] = 0
	}
	binary.LittleEndian.PutUint16(h[124:126], 0x0100)
	copy(h[126:128], "IM")
	return h
}

func writeTag(buf *bytes.Buffer, typ uint32, n int) {
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:4], typ)
	binary.LittleEndian.PutUint32(tag[4:8], uint32(n))
	buf.Write(tag[:])
}

func writeElement(buf *bytes.Buffer, typ uint32, data []byte) {
	writeTag(buf, typ, len(data))
	buf.Write(data)
	if pad := (8 - len(data)%8) % 8; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func encodeMatrix(v *Variable) ([]byte, error) {
	if v.Rows < 0 || v.Cols < 0 {
		return nil, fmt.Errorf("matio: %s: negative dimensions", v.Name)
	}

	var body bytes.Buffer

	flags := make([]byte, 8)
	class := uint32(mxDOUBLE)
	if v.Sparse {
		class = mxSPARSE
		nzmax := len(v.Values)
		if nzmax == 0 {
			nzmax = 1
		}
		binary.LittleEndian.PutUint32(flags[4:8], uint32(nzmax))
	}
	binary.LittleEndian.PutUint32(flags[0:4], class)
	writeElement(&body, miUINT32, flags)

	writeElement(&body, miINT32, int32s([]int{v.Rows, v.Cols}))
	writeElement(&body, miINT8, []byte(v.Name))

	if v.Sparse {
		if len(v.ColPtr) != v.Cols+1 || len(v.RowIndex) != len(v.Values) {
			return nil, fmt.Errorf("matio: %s: inconsistent sparse storage", v.Name)
		}
		ir := v.RowIndex
		if len(ir) == 0 {
			ir = []int{0}
		}
		writeElement(&body, miINT32, int32s(ir))
		writeElement(&body, miINT32, int32s(v.ColPtr))
		writeElement(&body, miDOUBLE, float64s(v.Values))
	} else {
		if len(v.Data) != v.Rows*v.Cols {
			return nil, fmt.Errorf("matio: %s: %d values for %dx%d", v.Name, len(v.Data), v.Rows, v.Cols)
		}
		writeElement(&body, miDOUBLE, float64s(v.Data))
	}

	var elem bytes.Buffer
	writeElement(&elem, miMATRIX, body.Bytes())
	return elem.Bytes(), nil
}

func int32s(vals []int) []byte {
	b := make([]byte, 4*len(vals))
	for i, x := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(int32(x)))
	}
	return b
}

func float64s(vals []float64) []byte {
	b := make([]byte, 8*len(vals))
	for i, x := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return b
}
