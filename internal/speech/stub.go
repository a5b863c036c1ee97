package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// stubFrame stands in for one encoded audio frame per input character.
var stubFrame = []byte{0xFF, 0xFB, 0x90, 0x00}

// StubBackend implements Backend with deterministic output. It is intended
// for CI and offline runs where no synthesis service is reachable.
type StubBackend struct {
	log *slog.Logger
}

// NewStubBackend returns a stub producing len(text) frames of fixed bytes.
func NewStubBackend(logger *slog.Logger) *StubBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubBackend{log: logger}
}

// SynthesizeStream returns len(req.Text)*4 bytes of repeated stub frames.
func (s *StubBackend) SynthesizeStream(_ context.Context, v voice.Voice, req Request) (io.ReadCloser, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("stub: voice is required")
	}
	if req.Text == "" {
		return nil, fmt.Errorf("stub: text is required")
	}

	data := bytes.Repeat(stubFrame, len(req.Text))

	s.log.Info("stub synthesis",
		"text_length", len(req.Text),
		"voice_id", v.ID,
		"format", req.Format,
		"bytes", len(data),
	)

	return io.NopCloser(bytes.NewReader(data)), nil
}
