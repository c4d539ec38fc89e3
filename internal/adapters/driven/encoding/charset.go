package encoding

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// sniffLength is the number of leading bytes charset.DetermineEncoding reads.
const sniffLength = 1024

// Ensure the types implement the interfaces.
var (
	_ driven.EncodingDetectorFactory = (*Factory)(nil)
	_ driven.EncodingDetector        = (*Detector)(nil)
)

// Factory creates charset detectors and decodes text.
type Factory struct{}

// NewFactory creates a new encoding factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewDetector returns a fresh detector.
func (f *Factory) NewDetector() driven.EncodingDetector {
	return &Detector{buf: make([]byte, 0, sniffLength)}
}

// Decode converts data in the named charset to UTF-8. A leading byte order
// mark overrides charset and is stripped.
func (f *Factory) Decode(name string, data []byte) (string, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))
	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(text), nil
}

// Detector buffers the first bytes of a stream and sniffs their encoding.
type Detector struct {
	buf []byte
}

// Write implements driven.EncodingDetector.
func (d *Detector) Write(p []byte) {
	room := sniffLength - len(d.buf)
	if room <= 0 {
		return
	}
	d.buf = append(d.buf, p[:min(room, len(p))]...)
}

// Done implements driven.EncodingDetector.
func (d *Detector) Done() bool {
	return len(d.buf) >= sniffLength
}

// Charset implements driven.EncodingDetector.
func (d *Detector) Charset() string {
	if len(d.buf) == 0 {
		return ""
	}
	_, name, certain := charset.DetermineEncoding(d.buf, "")
	if certain {
		return name
	}
	if bytes.IndexByte(d.buf, 0) >= 0 {
		return ""
	}
	if name == "windows-1252" && isASCII(d.buf) {
		return "utf-8"
	}
	return name
}

func isASCII(p []byte) bool {
	for _, b := range p {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
