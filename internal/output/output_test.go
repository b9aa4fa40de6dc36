package output

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cnclabs/harp/internal/matio"
)

func sample() *mat.Dense {
	return mat.NewDense(3, 4, []float64{
		0.1, -0.2, 0.3, 1e-9,
		4, 5, 6, 7,
		-1.5, 0, 2.25, 3.125,
	})
}

func TestSaveMatRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"out.mat", "OUT.MAT"} {
		path := filepath.Join(t.TempDir(), name)
		written, err := Save(sample(), path)
		require.NoError(t, err)
		assert.Equal(t, path, written)

		v, err := matio.ReadVariable(written, MatKey)
		require.NoError(t, err)
		require.Equal(t, 3, v.Rows)
		require.Equal(t, 4, v.Cols)

		want := sample()
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				assert.InDelta(t, want.At(i, j), v.Data[j*v.Rows+i], 1e-12)
			}
		}
	}
}

func TestSaveNpy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	written, err := Save(sample(), filepath.Join(dir, "embeddings"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "embeddings.npy"), written)

	f, err := os.Open(written)
	require.NoError(t, err)
	defer f.Close()

	var got mat.Dense
	require.NoError(t, npyio.Read(f, &got))
	assert.True(t, mat.EqualApprox(sample(), &got, 1e-12))
}

func TestSaveNpyKeepsSuffix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	written, err := Save(sample(), filepath.Join(dir, "e.npy"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "e.npy"), written)

	written, err = Save(sample(), filepath.Join(dir, "e.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "e.txt.npy"), written)
}

func TestSaveLeavesNothingOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Save(sample(), filepath.Join(dir, "missing", "out.mat"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	boom := errors.New("encoder failed")
	err = atomicWrite(filepath.Join(dir, "out.mat"), func(io.Writer) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file is removed")
}
