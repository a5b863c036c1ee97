package speech

import (
	"context"
	"io"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// Format is the audio encoding requested from the synthesis service.
type Format string

const (
	FormatMP3       Format = "mp3"
	FormatOggVorbis Format = "ogg_vorbis"
)

// Extension returns the file extension, including the dot, for f.
func (f Format) Extension() string {
	switch f {
	case FormatOggVorbis:
		return ".ogg"
	default:
		return ".mp3"
	}
}

// ContentType returns the MIME type stored alongside published objects.
func (f Format) ContentType() string {
	switch f {
	case FormatOggVorbis:
		return "audio/ogg"
	default:
		return "audio/mpeg"
	}
}

// Request carries the per-call synthesis parameters a Backend needs beyond the voice.
type Request struct {
	Text   string
	Engine string
	Format Format
}

// Backend abstracts a remote synthesis API so the Synthesizer can be tested
// with a mock implementation. The caller must close the returned reader.
type Backend interface {
	SynthesizeStream(ctx context.Context, v voice.Voice, req Request) (io.ReadCloser, error)
}
