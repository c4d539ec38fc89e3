package services

import (
	"log/slog"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// FormatSet is the ordered set of active format descriptors. A descriptor
// whose header check fails is removed for the rest of the run.
// Safe for concurrent use.
type FormatSet struct {
	mu      sync.RWMutex
	formats []driven.FormatDescriptor
	log     *slog.Logger
}

// NewFormatSet creates a set in declaration order.
func NewFormatSet(formats []driven.FormatDescriptor) *FormatSet {
	return &FormatSet{
		formats: append([]driven.FormatDescriptor(nil), formats...),
		log:     logger.For("formats"),
	}
}

// Snapshot returns the active descriptors in declaration order.
func (s *FormatSet) Snapshot() []driven.FormatDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driven.FormatDescriptor(nil), s.formats...)
}

// Len returns the number of active descriptors.
func (s *FormatSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.formats)
}

// MaxHeaderLength returns the longest header any active descriptor needs.
func (s *FormatSet) MaxHeaderLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	longest := 0
	for _, f := range s.formats {
		longest = max(longest, f.HeaderLength())
	}
	return longest
}

// Remove deactivates the descriptor with the given name.
func (s *FormatSet) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.formats {
		if f.Name() == name {
			s.formats = append(s.formats[:i:i], s.formats[i+1:]...)
			return true
		}
	}
	return false
}

// Candidates returns the descriptors whose header check accepts prefix,
// in declaration order. Descriptors whose check errors are removed.
func (s *FormatSet) Candidates(prefix []byte, isBinary bool, charset string) []driven.FormatDescriptor {
	var out []driven.FormatDescriptor
	for _, f := range s.Snapshot() {
		header := prefix
		if n := f.HeaderLength(); n < len(header) {
			header = header[:n]
		}
		ok, err := f.CheckHeader(header, isBinary, charset)
		if err != nil {
			if s.Remove(f.Name()) {
				s.log.Warn("format disabled", "format", f.Name(), "error", err)
			}
			continue
		}
		if ok {
			out = append(out, f)
		}
	}
	return out
}

// HashSet is the ordered set of active hash algorithms. An algorithm whose
// source check fails is removed for the rest of the run.
// Safe for concurrent use.
type HashSet struct {
	mu         sync.RWMutex
	algorithms []driven.HashAlgorithm
	log        *slog.Logger
}

// NewHashSet creates a set in configuration order.
func NewHashSet(algorithms []driven.HashAlgorithm) *HashSet {
	return &HashSet{
		algorithms: append([]driven.HashAlgorithm(nil), algorithms...),
		log:        logger.For("hashes"),
	}
}

// Snapshot returns the active algorithms in configuration order.
func (s *HashSet) Snapshot() []driven.HashAlgorithm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driven.HashAlgorithm(nil), s.algorithms...)
}

// Get returns the active algorithm with the given ID.
func (s *HashSet) Get(id domain.HashID) (driven.HashAlgorithm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.algorithms {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// Remove deactivates the algorithm with the given ID.
func (s *HashSet) Remove(id domain.HashID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.algorithms {
		if a.ID() == id {
			s.algorithms = append(s.algorithms[:i:i], s.algorithms[i+1:]...)
			return true
		}
	}
	return false
}

// Accepting returns the algorithms that accept src. Algorithms whose check
// errors are removed.
func (s *HashSet) Accepting(src domain.StreamSource) []driven.HashAlgorithm {
	var out []driven.HashAlgorithm
	for _, a := range s.Snapshot() {
		ok, err := a.AcceptsSource(src)
		if err != nil {
			if s.Remove(a.ID()) {
				s.log.Warn("hash disabled", "hash", a.ID().String(), "error", err)
			}
			continue
		}
		if ok {
			out = append(out, a)
		}
	}
	return out
}
