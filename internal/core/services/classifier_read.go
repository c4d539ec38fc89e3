package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// pass is the state of the one read a classification makes of its source.
type pass struct {
	c            *Classifier
	src          domain.StreamSource
	capacity     int
	matchFormats bool
	detector     driven.EncodingDetector

	prefix     []byte
	length     int64
	inspected  bool
	isBinary   bool
	charset    string
	candidates []driven.FormatDescriptor
	spill      *spillBuffer

	// wait blocks until every hash is computed.
	wait   func(ctx context.Context) map[domain.HashID][]byte
	cancel context.CancelFunc
}

// appendPrefix copies as much of chunk as fits into the prefix and returns
// the number of bytes taken.
func (p *pass) appendPrefix(chunk []byte) int {
	room := p.capacity - len(p.prefix)
	if room <= 0 {
		return 0
	}
	taken := min(room, len(chunk))
	p.prefix = append(p.prefix, chunk[:taken]...)
	if p.detector != nil && !p.detector.Done() {
		p.detector.Write(chunk[:taken])
	}
	return taken
}

// inspect classifies the prefix and checks format headers. It runs once,
// when the prefix is full or the stream ended.
func (p *pass) inspect() {
	p.inspected = true
	p.isBinary = sniffBinary(p.prefix)
	if !p.isBinary {
		p.charset = p.detectCharset()
	}
	if p.matchFormats {
		p.candidates = p.c.formats.Candidates(p.prefix, p.isBinary, p.charset)
	}
}

func (p *pass) detectCharset() string {
	if p.detector != nil {
		return p.detector.Charset()
	}
	if utf8.Valid(p.prefix) {
		return "utf-8"
	}
	return ""
}

// close releases the spill buffer and stops hashing still in flight.
func (p *pass) close() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.spill != nil {
		if err := p.spill.Close(); err != nil {
			p.c.log.Warn("release spill", "source", p.src.Name(), "error", err)
		}
		p.spill = nil
	}
}

// hashConsumer computes one hash from chunks handed over by the read loop.
type hashConsumer struct {
	alg    driven.HashAlgorithm
	chunks chan []byte
	done   chan struct{}
	closed bool
	digest []byte
	err    error
}

// readSequential reads the source exactly once. Every chunk is appended to
// the prefix, handed to every hash consumer and, once a format header
// matched, spilled for the format matchers. Each consumer holds at most one
// pending chunk, so the read cannot outrun the slowest hash.
func (p *pass) readSequential(ctx context.Context, algorithms []driven.HashAlgorithm) error {
	rc, err := p.src.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.src.Name(), err)
	}
	defer rc.Close()

	consumers := make([]*hashConsumer, len(algorithms))
	for i, alg := range algorithms {
		hc := &hashConsumer{alg: alg, chunks: make(chan []byte, 1), done: make(chan struct{})}
		consumers[i] = hc
		go func() {
			defer close(hc.done)
			hc.digest, hc.err = hc.alg.SumChunks(ctx, hc.chunks)
		}()
	}
	finish := func() {
		for _, hc := range consumers {
			if !hc.closed {
				close(hc.chunks)
				hc.closed = true
			}
			<-hc.done
		}
	}
	defer finish()

	chunkSize := p.c.settings.ChunkSize
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Consumers may still hold the previous chunk, so every read gets a fresh buffer.
		buf := make([]byte, chunkSize)
		n, rerr := rc.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			p.length += int64(n)

			taken := p.appendPrefix(chunk)
			if !p.inspected && len(p.prefix) >= p.capacity {
				p.inspect()
				if len(p.candidates) > 0 {
					p.startSpill(chunk[taken:])
				}
			} else if p.spill != nil {
				p.writeSpill(chunk)
			}

			for _, hc := range consumers {
				select {
				case hc.chunks <- chunk:
				case <-hc.done:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read %s: %w", p.src.Name(), rerr)
		}
	}

	if !p.inspected {
		p.inspect()
	}

	finish()
	digests := make(map[domain.HashID][]byte, len(consumers))
	for _, hc := range consumers {
		if hc.err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.c.log.Warn("hash failed", "hash", hc.alg.ID().String(), "source", p.src.Name(), "error", hc.err)
			continue
		}
		digests[hc.alg.ID()] = hc.digest
	}
	p.wait = func(context.Context) map[domain.HashID][]byte { return digests }
	return nil
}

// startSpill begins keeping a re-readable copy: the full prefix, then rest,
// the part of the current chunk beyond it.
func (p *pass) startSpill(rest []byte) {
	spill, err := newSpillBuffer(p.c.settings.SpillThreshold, p.c.settings.TempDir, p.src.Length())
	if err != nil {
		p.dropSpill(err)
		return
	}
	p.spill = spill
	p.writeSpill(p.prefix)
	p.writeSpill(rest)
}

func (p *pass) writeSpill(b []byte) {
	if p.spill == nil || len(b) == 0 {
		return
	}
	if _, err := p.spill.Write(b); err != nil {
		p.dropSpill(err)
	}
}

// dropSpill gives up on format matching for this source.
func (p *pass) dropSpill(err error) {
	p.c.log.Warn("spill failed, skipping formats", "source", p.src.Name(), "error", err)
	if p.spill != nil {
		p.spill.Close()
		p.spill = nil
	}
	p.candidates = nil
}

// readParallel hashes on one independent stream per algorithm while the
// main stream fills the prefix.
func (p *pass) readParallel(ctx context.Context, algorithms []driven.HashAlgorithm) error {
	hashCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	digests := make([][]byte, len(algorithms))
	var wg sync.WaitGroup
	for i, alg := range algorithms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := p.src.Open(hashCtx)
			if err != nil {
				p.c.log.Warn("hash open failed", "hash", alg.ID().String(), "source", p.src.Name(), "error", err)
				return
			}
			defer rc.Close()
			digest, err := alg.Sum(hashCtx, rc)
			if err != nil {
				if hashCtx.Err() == nil {
					p.c.log.Warn("hash failed", "hash", alg.ID().String(), "source", p.src.Name(), "error", err)
				}
				return
			}
			digests[i] = digest
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	p.wait = func(ctx context.Context) map[domain.HashID][]byte {
		select {
		case <-done:
		case <-ctx.Done():
			return nil
		}
		out := make(map[domain.HashID][]byte, len(algorithms))
		for i, alg := range algorithms {
			if digests[i] != nil {
				out[alg.ID()] = digests[i]
			}
		}
		return out
	}

	rc, err := p.src.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.src.Name(), err)
	}
	defer rc.Close()

	buf := make([]byte, p.capacity)
	n, err := io.ReadFull(&contextReader{ctx: ctx, r: rc}, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("read %s: %w", p.src.Name(), err)
	}
	p.appendPrefix(buf[:n])
	p.length = int64(n)

	if n == p.capacity {
		if length := p.src.Length(); length >= 0 {
			p.length = max(length, p.length)
		} else {
			rest, err := io.Copy(io.Discard, &contextReader{ctx: ctx, r: rc})
			if err != nil {
				return fmt.Errorf("read %s: %w", p.src.Name(), err)
			}
			p.length += rest
		}
	}

	p.inspect()
	return nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// sniffBinary reports whether prefix looks binary: it holds a NUL byte
// outside a byte order mark. Empty content is binary.
func sniffBinary(prefix []byte) bool {
	if len(prefix) == 0 {
		return true
	}
	switch {
	case bytes.HasPrefix(prefix, bomUTF8):
		prefix = prefix[len(bomUTF8):]
	case bytes.HasPrefix(prefix, bomUTF16BE), bytes.HasPrefix(prefix, bomUTF16LE):
		// UTF-16 and UTF-32 text is full of NULs.
		return false
	case bytes.HasPrefix(prefix, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return false
	}
	return bytes.IndexByte(prefix, 0) >= 0
}

// contextReader stops a read once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
