package services

import (
	"sync/atomic"

	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driving"
)

// runStats counts work done during one analysis. Safe for concurrent use.
type runStats struct {
	entities      atomic.Int64
	unclassified  atomic.Int64
	bytesRead     atomic.Int64
	formatMatches atomic.Int64
}

func (s *runStats) snapshot() driving.AnalysisStats {
	if s == nil {
		return driving.AnalysisStats{}
	}
	return driving.AnalysisStats{
		Entities:      s.entities.Load(),
		Unclassified:  s.unclassified.Load(),
		BytesRead:     s.bytesRead.Load(),
		FormatMatches: s.formatMatches.Load(),
	}
}
