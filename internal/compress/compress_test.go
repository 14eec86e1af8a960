package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", None},
		{"none", None},
		{"ZSTD", Zstd},
		{"zst", Zstd},
		{"lz4", LZ4},
		{"gzip", Gzip},
		{" gz ", Gzip},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("brotli")
	assert.Error(t, err)
}

func TestExtAndFromName(t *testing.T) {
	assert.Equal(t, "", None.Ext())
	assert.Equal(t, ".zst", Zstd.Ext())
	assert.Equal(t, ".lz4", LZ4.Ext())
	assert.Equal(t, ".gz", Gzip.Ext())

	assert.Equal(t, Zstd, FromName("a_data.csv.zst"))
	assert.Equal(t, LZ4, FromName("a_data.csv.lz4"))
	assert.Equal(t, Gzip, FromName("a_data.csv.gz"))
	assert.Equal(t, None, FromName("a_data.csv"))
}

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("v1,v2,v3,v4,s\n1.00000,2.00000,3.00000,4.00000,5.00000\n", 200))

	for _, k := range Kinds {
		t.Run(string(k), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, k)
			require.NoError(t, err)

			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if k != None {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(bytes.NewReader(buf.Bytes()), k)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDeterministicOutput(t *testing.T) {
	payload := []byte(strings.Repeat("key value\n", 1000))

	encode := func(k Kind) []byte {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, k)
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	}

	for _, k := range Kinds {
		assert.Equal(t, encode(k), encode(k), string(k))
	}
}

func TestUnknownKind(t *testing.T) {
	_, err := NewWriter(io.Discard, Kind("brotli"))
	assert.Error(t, err)

	_, err = NewReader(strings.NewReader(""), Kind("brotli"))
	assert.Error(t, err)
}
