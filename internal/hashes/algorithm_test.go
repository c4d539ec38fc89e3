package hashes

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

func reference(name string, data []byte) []byte {
	switch name {
	case "md5":
		s := md5.Sum(data)
		return s[:]
	case "sha1":
		s := sha1.Sum(data)
		return s[:]
	case "sha256":
		s := sha256.Sum256(data)
		return s[:]
	case "sha512":
		s := sha512.Sum512(data)
		return s[:]
	case "sha3-256":
		s := sha3.Sum256(data)
		return s[:]
	case "blake3":
		s := blake3.Sum256(data)
		return s[:]
	case "blake2b-256":
		s := blake2b.Sum256(data)
		return s[:]
	}
	return nil
}

func TestAlgorithms_MatchReference(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	data := bytes.Repeat([]byte("the quick brown fox "), 1000)

	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			alg, err := r.Build(name)
			require.NoError(t, err)
			want := reference(name, data)
			require.NotNil(t, want)

			got, err := alg.Sum(context.Background(), bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			chunks := make(chan []byte, 4)
			go func() {
				defer close(chunks)
				for i := 0; i < len(data); i += 777 {
					end := min(i+777, len(data))
					chunks <- data[i:end]
				}
			}()
			got, err = alg.SumChunks(context.Background(), chunks)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			assert.Equal(t, len(want), alg.HashSize(int64(len(data))))
		})
	}
}

func TestAlgorithm_NodeFor(t *testing.T) {
	alg := New("sha256", "sha-256", sha256.New)
	digest := sha256.Sum256([]byte("hello"))

	node := alg.NodeFor(digest[:])

	assert.True(t, strings.HasPrefix(string(node), "ni:///sha-256;"))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(digest[:]), strings.TrimPrefix(string(node), "ni:///sha-256;"))

	size, ok := alg.EstimateURISize(alg.HashSize(-1))
	require.True(t, ok)
	assert.Equal(t, len(node), size)
}

func TestAlgorithm_Cancelled(t *testing.T) {
	alg := New("sha256", "sha-256", sha256.New)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := alg.Sum(ctx, strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)

	chunks := make(chan []byte)
	_, err = alg.SumChunks(ctx, chunks)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlgorithm_AcceptsEverySource(t *testing.T) {
	alg := New("md5", "md5", md5.New)
	ok, err := alg.AcceptsSource(nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
