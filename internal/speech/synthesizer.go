package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/cache"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/telemetry"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// Artifact is the complete audio produced for one synthesis call.
type Artifact struct {
	Data    []byte
	Format  Format
	VoiceID string
}

// Options configures a Synthesizer. Cache and Metrics may be nil.
type Options struct {
	// Provider names the backend so cached audio is never served across providers.
	Provider string
	Engine   string
	Format   Format
	Cache    *cache.Cache
	Metrics  *telemetry.Recorder
}

// Synthesizer turns text and a voice selection into an Artifact.
type Synthesizer struct {
	backend  Backend
	resolver voice.Resolver
	provider string
	engine   string
	format   Format
	cache    *cache.Cache
	metrics  *telemetry.Recorder
	log      *slog.Logger
}

// NewSynthesizer wires a backend to the voice resolver and optional cache.
func NewSynthesizer(backend Backend, resolver voice.Resolver, opts Options, logger *slog.Logger) *Synthesizer {
	if backend == nil {
		panic("speech: backend must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatMP3
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NewRecorder(logger)
	}
	return &Synthesizer{
		backend:  backend,
		resolver: resolver,
		provider: opts.Provider,
		engine:   opts.Engine,
		format:   opts.Format,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		log: logger.With(
			"component", "synthesizer",
			"engine", opts.Engine,
			"format", opts.Format,
		),
	}
}

// Format reports the encoding every Artifact from s uses.
func (s *Synthesizer) Format() Format { return s.format }

// Synthesize returns the full audio for text spoken by voiceID. Unknown voices
// are handled by the resolver's policy. Every failure is a *SynthesisError.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voiceID string) (Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return Artifact{}, s.fail(&SynthesisError{VoiceID: voiceID, Err: ErrEmptyText})
	}

	v, err := s.resolver.Resolve(voiceID)
	if err != nil {
		return Artifact{}, s.fail(&SynthesisError{VoiceID: voiceID, Err: err})
	}
	logEntry := s.log.With("voice_id", v.ID, "text_length", len(text))
	if voiceID != "" && !strings.EqualFold(voiceID, v.ID) {
		logEntry.Warn("unrecognised voice, using fallback", "requested", voiceID)
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = cache.Key(s.provider, text, v.ID, s.engine, string(s.format))
		if data, ok := s.cache.Get(cacheKey); ok {
			logEntry.Info("cache hit", "key", cacheKey)
			s.metrics.Synthesized(v.ID, len(data), 0, true)
			return Artifact{Data: data, Format: s.format, VoiceID: v.ID}, nil
		}
		logEntry.Debug("cache miss", "key", cacheKey)
	}

	start := time.Now()
	stream, err := s.backend.SynthesizeStream(ctx, v, Request{Text: text, Engine: s.engine, Format: s.format})
	if err != nil {
		logEntry.Error("synthesis request failed", "error", err)
		return Artifact{}, s.fail(&SynthesisError{VoiceID: v.ID, Code: ErrorCode(err), Err: err})
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		logEntry.Error("error reading audio stream", "error", err)
		return Artifact{}, s.fail(&SynthesisError{VoiceID: v.ID, Err: fmt.Errorf("read audio stream: %w", err)})
	}
	if len(data) == 0 {
		return Artifact{}, s.fail(&SynthesisError{VoiceID: v.ID, Err: ErrEmptyAudio})
	}

	elapsed := time.Since(start)
	logEntry.Info("synthesis completed", "total_bytes", len(data), "duration_sec", elapsed.Seconds())
	s.metrics.Synthesized(v.ID, len(data), elapsed, false)

	if s.cache != nil {
		if err := s.cache.Put(cacheKey, data); err != nil {
			logEntry.Warn("failed to store in cache", "error", err)
		}
	}

	return Artifact{Data: data, Format: s.format, VoiceID: v.ID}, nil
}

func (s *Synthesizer) fail(err *SynthesisError) error {
	s.metrics.Failed("synthesize", err)
	return err
}
