// Package google synthesizes speech with Google Cloud Text-to-Speech.
package google

import (
	"bytes"
	"context"
	"fmt"
	"io"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// API is the subset of the Google TTS client used here.
type API interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Client implements speech.Backend on top of Google Cloud TTS. Catalogue
// voices are mapped onto their Google equivalents.
type Client struct {
	api API
}

// NewClient wraps an existing API implementation.
func NewClient(api API) *Client {
	return &Client{api: api}
}

// Dial creates a Google TTS client using application default credentials
// unless opts say otherwise.
func Dial(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create tts client: %w", err)
	}
	return NewClient(c), nil
}

// SynthesizeStream requests the whole utterance and exposes it as a reader.
func (c *Client) SynthesizeStream(ctx context.Context, v voice.Voice, req speech.Request) (io.ReadCloser, error) {
	if v.GoogleName == "" {
		return nil, fmt.Errorf("google: voice %q has no google equivalent", v.ID)
	}
	if req.Text == "" {
		return nil, fmt.Errorf("google: text is required")
	}

	resp, err := c.api.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: v.LanguageCode,
			Name:         v.GoogleName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: audioEncoding(req.Format),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("google: synthesize speech: %w", err)
	}
	return io.NopCloser(bytes.NewReader(resp.GetAudioContent())), nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	return c.api.Close()
}

func audioEncoding(f speech.Format) texttospeechpb.AudioEncoding {
	switch f {
	case speech.FormatOggVorbis:
		return texttospeechpb.AudioEncoding_OGG_OPUS
	default:
		return texttospeechpb.AudioEncoding_MP3
	}
}
