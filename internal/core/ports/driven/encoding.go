package driven

// EncodingDetector incrementally guesses the text encoding of a stream.
type EncodingDetector interface {
	// Write feeds the next chunk in stream order.
	Write(p []byte)

	// Done reports whether further input cannot change the verdict.
	Done() bool

	// Charset returns the best guess so far (an IANA name), or "" when the
	// input does not look like text in any supported encoding.
	Charset() string
}

// EncodingDetectorFactory creates detectors and decodes text once detected.
type EncodingDetectorFactory interface {
	NewDetector() EncodingDetector

	// Decode converts data in charset to UTF-8.
	Decode(charset string, data []byte) (string, error)
}
