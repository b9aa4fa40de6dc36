// Package matio reads and writes MATLAB level 5 MAT-files, limited to the
// two-dimensional numeric and sparse arrays that carry graphs and embeddings.
package matio

import (
	"errors"
	"fmt"
)

// Data types of MAT-file data elements.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
)

// Array classes stored in the array flags sub-element.
const (
	mxCELL   = 1
	mxSTRUCT = 2
	mxOBJECT = 3
	mxCHAR   = 4
	mxSPARSE = 5
	mxDOUBLE = 6
	mxSINGLE = 7
	mxINT8   = 8
	mxUINT64 = 15
)

const (
	headerSize   = 128
	flagComplex  = 0x0800
	flagLogical  = 0x0200
	headerBanner = "MATLAB 5.0 MAT-file, written by harp"
)

var (
	// ErrNotFound is returned when a file has no variable of the requested name.
	ErrNotFound = errors.New("matio: variable not found")
	// ErrFormat is returned for malformed or unsupported file content.
	ErrFormat = errors.New("matio: invalid MAT-file")
)

// Variable is a named two-dimensional real array. Dense arrays keep their
// values in Data in column-major order; sparse arrays use compressed sparse
// column storage in RowIndex, ColPtr and Values.
type Variable struct {
	Name  string
	Rows  int
	Cols  int
	Class int

	Data []float64

	Sparse   bool
	RowIndex []int
	ColPtr   []int
	Values   []float64
}

// NewDense returns a dense variable. data is read in row-major order.
func NewDense(name string, rows, cols int, data []float64) (*Variable, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matio: %s: %d values for a %dx%d array", name, len(data), rows, cols)
	}
	colMajor := make([]float64, len(data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			colMajor[j*rows+i] = data[i*cols+j]
		}
	}
	return &Variable{Name: name, Rows: rows, Cols: cols, Class: mxDOUBLE, Data: colMajor}, nil
}

// NewSparse returns a sparse variable built from coordinate triplets.
// Entries sharing a coordinate are summed.
func NewSparse(name string, rows, cols int, ri, ci []int, vals []float64) (*Variable, error) {
	if len(ri) != len(ci) || len(ri) != len(vals) {
		return nil, fmt.Errorf("matio: %s: triplet length mismatch", name)
	}

	perCol := make([]map[int]float64, cols)
	for k := range ri {
		if ri[k] < 0 || ri[k] >= rows || ci[k] < 0 || ci[k] >= cols {
			return nil, fmt.Errorf("matio: %s: entry (%d,%d) outside %dx%d", name, ri[k], ci[k], rows, cols)
		}
		if perCol[ci[k]] == nil {
			perCol[ci[k]] = make(map[int]float64)
		}
		perCol[ci[k]][ri[k]] += vals[k]
	}

	v := &Variable{Name: name, Rows: rows, Cols: cols, Class: mxSPARSE, Sparse: true}
	v.ColPtr = make([]int, cols+1)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if val, ok := perCol[j][i]; ok {
				v.RowIndex = append(v.RowIndex, i)
				v.Values = append(v.Values, val)
			}
		}
		v.ColPtr[j+1] = len(v.RowIndex)
	}
	return v, nil
}

// NonZero calls fn for every non-zero element, column by column.
func (v *Variable) NonZero(fn func(i, j int, val float64) error) error {
	if v.Sparse {
		for j := 0; j < v.Cols; j++ {
			for k := v.ColPtr[j]; k < v.ColPtr[j+1]; k++ {
				if v.Values[k] == 0 {
					continue
				}
				if err := fn(v.RowIndex[k], j, v.Values[k]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for j := 0; j < v.Cols; j++ {
		for i := 0; i < v.Rows; i++ {
			if val := v.Data[j*v.Rows+i]; val != 0 {
				if err := fn(i, j, val); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// numeric reports whether the variable holds numbers this package can decode.
func (v *Variable) numeric() bool {
	return v.Class == mxSPARSE || (v.Class >= mxDOUBLE && v.Class <= mxUINT64)
}
