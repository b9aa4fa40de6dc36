// Package output persists embedding matrices.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/cnclabs/harp/internal/matio"
)

// MatKey is the MAT-file variable that holds the embeddings.
const MatKey = "embs"

// Save writes m to path and returns the path actually written. A ".mat"
// suffix, in any case, selects a MAT-file with the matrix under MatKey;
// anything else is written as a NumPy array with ".npy" appended when
// missing. The file appears only once it is complete.
func Save(m mat.Matrix, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".mat") {
		return path, atomicWrite(path, func(w io.Writer) error {
			return writeMat(w, m)
		})
	}

	if !strings.HasSuffix(path, ".npy") {
		path += ".npy"
	}
	return path, atomicWrite(path, func(w io.Writer) error {
		return npyio.Write(w, m)
	})
}

func writeMat(w io.Writer, m mat.Matrix) error {
	dense := mat.DenseCopyOf(m)
	rows, cols := dense.Dims()
	v, err := matio.NewDense(MatKey, rows, cols, dense.RawMatrix().Data)
	if err != nil {
		return err
	}
	return matio.Write(w, v)
}

func atomicWrite(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err = write(tmp); err != nil {
		return fmt.Errorf("output: %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("output: %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}
