package telemetry

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Recorder centralises telemetry for synthesis and publishing. Events are
// emitted as structured logs and tallied in process-local counters.
type Recorder struct {
	logger *slog.Logger

	syntheses atomic.Int64
	cacheHits atomic.Int64
	publishes atomic.Int64
	failures  atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Syntheses int64
	CacheHits int64
	Publishes int64
	Failures  int64
}

// NewRecorder constructs a telemetry recorder using the provided slog.Logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger.With("component", "telemetry")}
}

// Synthesized records a completed synthesis.
func (r *Recorder) Synthesized(voiceID string, bytes int, elapsed time.Duration, cached bool) {
	r.syntheses.Add(1)
	if cached {
		r.cacheHits.Add(1)
	}
	r.logger.Debug("synthesis recorded",
		"voice_id", voiceID,
		"bytes", bytes,
		"duration_sec", elapsed.Seconds(),
		"cached", cached,
	)
}

// Published records a completed upload.
func (r *Recorder) Published(objectKey string, bytes int, elapsed time.Duration) {
	r.publishes.Add(1)
	r.logger.Debug("publish recorded",
		"object_key", objectKey,
		"bytes", bytes,
		"duration_sec", elapsed.Seconds(),
	)
}

// Failed records a failure in the named stage.
func (r *Recorder) Failed(stage string, err error) {
	r.failures.Add(1)
	r.logger.Debug("failure recorded", "stage", stage, "error", err)
}

// Snapshot returns the current counter values.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Syntheses: r.syntheses.Load(),
		CacheHits: r.cacheHits.Load(),
		Publishes: r.publishes.Load(),
		Failures:  r.failures.Load(),
	}
}
