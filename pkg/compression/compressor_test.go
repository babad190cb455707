package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var original = []byte(strings.Repeat("id,name,active\n1,Alice,Yes\n2,Bob,No\n", 50))

func TestRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var compressed bytes.Buffer
				w, err := NewWriter(&compressed, alg, level)
				require.NoError(t, err)
				_, err = w.Write(original)
				require.NoError(t, err)
				require.NoError(t, w.Close())
				if alg != None {
					assert.Less(t, compressed.Len(), len(original))
				}

				r, err := NewReader(&compressed, alg)
				require.NoError(t, err)
				defer r.Close()
				decompressed, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, original, decompressed)
			})
		}
	}
}

func TestStreamingWriterDoesNotCloseDestination(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Zstd, Default)
	require.NoError(t, err)
	_, err = w.Write(original)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf, Zstd)
	require.NoError(t, err)
	defer r.Close()

	got := new(bytes.Buffer)
	_, err = got.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, original, got.Bytes())
}

func TestParse(t *testing.T) {
	a, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, a)

	a, err = Parse(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)

	_, err = Parse("brotli")
	assert.Error(t, err)

	_, err = NewWriter(&bytes.Buffer{}, Algorithm("brotli"), Default)
	assert.Error(t, err)
}

func TestFromPath(t *testing.T) {
	a, inner := FromPath("/data/sales.csv.gz")
	assert.Equal(t, Gzip, a)
	assert.Equal(t, "/data/sales.csv", inner)

	a, inner = FromPath("sales.CSV.ZST")
	assert.Equal(t, Zstd, a)
	assert.Equal(t, "sales.CSV", inner)

	a, inner = FromPath("sales.xlsx")
	assert.Equal(t, None, a)
	assert.Equal(t, "sales.xlsx", inner)

	assert.Equal(t, ".lz4", LZ4.Extension())
	assert.Equal(t, "", None.Extension())
}
