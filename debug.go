package rowan

import (
	"time"

	"go.uber.org/zap"
)

// frameStats holds per-frame timing and traversal metrics.
// Only populated when Scene debug mode is on.
type frameStats struct {
	layoutTime time.Duration
	renderTime time.Duration
	rendered   int
	nodes      int
}

// logStats emits timing and traversal stats through the scene logger.
func (s *Scene) logStats(stats frameStats) {
	s.log.Debug("frame",
		zap.Uint64("frame", s.frame),
		zap.Duration("layout", stats.layoutTime),
		zap.Duration("render", stats.renderTime),
		zap.Int("rendered", stats.rendered),
		zap.Int("nodes", stats.nodes),
	)
}
