package compress

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

const payload = "the quick brown fox jumps over the lazy dog\n"

func gzipped(t *testing.T, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = name
	_, err := w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstded(t *testing.T) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(payload), nil)
}

func lz4ed(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// decompress matches data and reads the decompressed stream inside next.
func decompress(t *testing.T, d *Descriptor, name string, data []byte) (domain.Decompressed, string, error) {
	t.Helper()
	var got domain.Decompressed
	var body []byte
	_, err := d.Match(context.Background(), stream.NewBytesSource(name, data), driven.MatchContext{},
		func(ctx context.Context, value any) (domain.AnalysisResult, error) {
			var ok bool
			got, ok = value.(domain.Decompressed)
			require.True(t, ok, "got %T", value)
			rc, err := got.Source.Open(ctx)
			if err != nil {
				return domain.AnalysisResult{}, err
			}
			defer rc.Close()
			body, err = io.ReadAll(rc)
			return domain.AnalysisResult{Node: "urn:test"}, err
		})
	return got, string(body), err
}

func TestDescriptors_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		desc      *Descriptor
		data      []byte
		wantLabel string
		wantName  string
	}{
		{"gzip with name", NewGzip(), gzipped(t, "fox.txt"), "fox.txt", "fox.txt"},
		{"gzip without name", NewGzip(), gzipped(t, ""), "fox", ""},
		{"zstd", NewZstd(), zstded(t), "fox", ""},
		{"lz4", NewLZ4(), lz4ed(t), "fox", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.desc.CheckHeader(tt.data[:tt.desc.HeaderLength()], true, "")
			require.NoError(t, err)
			require.True(t, ok)

			got, body, err := decompress(t, tt.desc, "fox."+tt.desc.Extension(), tt.data)
			require.NoError(t, err)
			assert.Equal(t, payload, body)
			assert.Equal(t, tt.desc.Name(), got.Algorithm)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantLabel, got.Source.Name())
			assert.Equal(t, domain.AccessSingle, got.Source.AccessMode())
			assert.Equal(t, domain.KindDecompressed, tt.desc.ValueKind())
		})
	}
}

func TestDescriptors_CheckHeaderRejectsOthers(t *testing.T) {
	for _, d := range []*Descriptor{NewGzip(), NewZstd(), NewLZ4()} {
		ok, err := d.CheckHeader([]byte("PK\x03\x04"), true, "")
		require.NoError(t, err)
		assert.False(t, ok, d.Name())
	}
}

func TestDescriptors_CorruptStream(t *testing.T) {
	tests := []struct {
		name string
		desc *Descriptor
		data []byte
	}{
		{"gzip bad flags", NewGzip(), []byte{0x1f, 0x8b, 0x08, 0xff, 0, 0, 0, 0, 0, 0}},
		{"zstd bad frame", NewZstd(), []byte{0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff, 0xff, 0xff}},
		{"lz4 bad frame", NewLZ4(), []byte{0x04, 0x22, 0x4d, 0x18, 0xff, 0xff, 0xff}},
		{"lz4 magic only", NewLZ4(), []byte{0x04, 0x22, 0x4d, 0x18}},
		{"lz4 partial descriptor", NewLZ4(), []byte{0x04, 0x22, 0x4d, 0x18, 0x64, 0x40}},
		{"gzip magic only", NewGzip(), []byte{0x1f, 0x8b, 0x08}},
		{"zstd magic only", NewZstd(), []byte{0x28, 0xb5, 0x2f, 0xfd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.desc.Match(context.Background(), stream.NewBytesSource("bad", tt.data), driven.MatchContext{},
				func(context.Context, any) (domain.AnalysisResult, error) {
					t.Fatal("next must not be called")
					return domain.AnalysisResult{}, nil
				})
			assert.ErrorContains(t, err, tt.desc.Name()+":")
		})
	}
}

func TestDescriptors_EmptyFrame(t *testing.T) {
	var gz bytes.Buffer
	require.NoError(t, gzip.NewWriter(&gz).Close())

	enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	require.NoError(t, err)
	zst := enc.EncodeAll(nil, nil)
	require.NoError(t, enc.Close())

	tests := []struct {
		name string
		desc *Descriptor
		data []byte
	}{
		{"gzip", NewGzip(), gz.Bytes()},
		{"zstd", NewZstd(), zst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, body, err := decompress(t, tt.desc, "empty."+tt.desc.Extension(), tt.data)
			require.NoError(t, err)
			assert.Empty(t, body)
			assert.Equal(t, tt.desc.Name(), got.Algorithm)
		})
	}
}

func TestLZ4Frame(t *testing.T) {
	assert.Equal(t, 11, lz4Frame([]byte{0x04, 0x22, 0x4d, 0x18}))
	assert.Equal(t, 11, lz4Frame([]byte{0x04, 0x22, 0x4d, 0x18, 0x64}))
	assert.Equal(t, 19, lz4Frame([]byte{0x04, 0x22, 0x4d, 0x18, 0x6c}))
	assert.Equal(t, 23, lz4Frame([]byte{0x04, 0x22, 0x4d, 0x18, 0xff}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "orig.txt", label("a/b.gz", "orig.txt", "gz"))
	assert.Equal(t, "b", label("a/b.gz", "", "gz"))
	assert.Equal(t, "stdin!", label("stdin", "", "gz"))
	assert.Equal(t, ".gz!", label(".gz", "", "gz"))
}
