// Package pipeline composes speech synthesis and artifact publishing into a
// single text-to-URL call.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/publish"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
)

// Synthesizer produces an audio artifact from text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (speech.Artifact, error)
}

// Publisher stores an artifact and returns where it can be fetched.
type Publisher interface {
	Publish(ctx context.Context, art speech.Artifact) (publish.Location, error)
}

var (
	_ Synthesizer = (*speech.Synthesizer)(nil)
	_ Publisher   = (*publish.Publisher)(nil)
)

// Result is the outcome of one successful Run.
type Result struct {
	VoiceID  string
	Bytes    int
	Location publish.Location
}

// Pipeline runs Synthesizer then Publisher. It holds no per-call state and is
// safe for concurrent use when its collaborators are.
type Pipeline struct {
	synth Synthesizer
	pub   Publisher
	log   *slog.Logger
}

// New returns a Pipeline.
func New(synth Synthesizer, pub Publisher, logger *slog.Logger) *Pipeline {
	if synth == nil || pub == nil {
		panic("pipeline: synthesizer and publisher must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{synth: synth, pub: pub, log: logger.With("component", "pipeline")}
}

// Run synthesizes text with voiceID and publishes the audio. Errors from
// either step are returned unchanged (*speech.SynthesisError or
// *publish.PublishError).
func (p *Pipeline) Run(ctx context.Context, text, voiceID string) (Result, error) {
	art, err := p.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		return Result{}, err
	}

	loc, err := p.pub.Publish(ctx, art)
	if err != nil {
		return Result{}, err
	}

	p.log.Info("speech delivered", "voice_id", art.VoiceID, "bytes", len(art.Data), "url", loc.URL)
	return Result{VoiceID: art.VoiceID, Bytes: len(art.Data), Location: loc}, nil
}
