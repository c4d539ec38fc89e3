package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detect(data []byte) string {
	d := NewFactory().NewDetector()
	d.Write(data)
	return d.Charset()
}

func TestDetector_Charset(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, ""},
		{"ascii", []byte("hello world\n"), "utf-8"},
		{"utf-8", []byte("h\xc3\xa9llo w\xc3\xb6rld"), "utf-8"},
		{"latin-1 bytes", []byte("h\xe9llo"), "windows-1252"},
		{"utf-8 bom", []byte("\xef\xbb\xbfhello"), "utf-8"},
		{"utf-16le bom", []byte("\xff\xfeh\x00i\x00"), "utf-16le"},
		{"utf-16be bom", []byte("\xfe\xff\x00h\x00i"), "utf-16be"},
		{"nul without bom", []byte("a\x00b"), ""},
		{"html meta", []byte(`<html><head><meta charset="iso-8859-2"></head></html>`), "iso-8859-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect(tt.data))
		})
	}
}

func TestDetector_Done(t *testing.T) {
	d := NewFactory().NewDetector()
	assert.False(t, d.Done())

	d.Write(bytes.Repeat([]byte("a"), sniffLength-1))
	assert.False(t, d.Done())

	d.Write([]byte("bc"))
	assert.True(t, d.Done())

	// Input past the sniff window is ignored.
	d.Write([]byte("\xe9\xe9\xe9"))
	assert.Equal(t, "utf-8", d.Charset())
}

func TestFactory_Decode(t *testing.T) {
	f := NewFactory()

	t.Run("windows-1252", func(t *testing.T) {
		text, err := f.Decode("windows-1252", []byte("caf\xe9"))
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("utf-16le with bom", func(t *testing.T) {
		text, err := f.Decode("utf-16le", []byte("\xff\xfeh\x00i\x00"))
		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("bom overrides charset", func(t *testing.T) {
		text, err := f.Decode("windows-1252", []byte("\xef\xbb\xbfcaf\xc3\xa9"))
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("utf-8", func(t *testing.T) {
		text, err := f.Decode("utf-8", []byte("plain"))
		require.NoError(t, err)
		assert.Equal(t, "plain", text)
	})

	t.Run("unknown charset", func(t *testing.T) {
		_, err := f.Decode("no-such-charset", []byte("x"))
		assert.Error(t, err)
	})
}
