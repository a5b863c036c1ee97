// Package polly synthesizes speech with Amazon Polly.
package polly

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// API is the subset of the Polly client used here.
type API interface {
	SynthesizeSpeech(ctx context.Context, params *awspolly.SynthesizeSpeechInput, optFns ...func(*awspolly.Options)) (*awspolly.SynthesizeSpeechOutput, error)
}

// Client implements speech.Backend on top of Amazon Polly.
type Client struct {
	api API
}

// NewClient wraps an existing Polly API implementation.
func NewClient(api API) *Client {
	return &Client{api: api}
}

// NewFromConfig builds a Client from a resolved AWS configuration.
func NewFromConfig(cfg aws.Config, optFns ...func(*awspolly.Options)) *Client {
	return NewClient(awspolly.NewFromConfig(cfg, optFns...))
}

// SynthesizeStream calls SynthesizeSpeech and returns Polly's audio stream.
// The caller must close the reader when done.
func (c *Client) SynthesizeStream(ctx context.Context, v voice.Voice, req speech.Request) (io.ReadCloser, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("polly: voice is required")
	}
	if req.Text == "" {
		return nil, fmt.Errorf("polly: text is required")
	}

	input := &awspolly.SynthesizeSpeechInput{
		OutputFormat: outputFormat(req.Format),
		Text:         aws.String(req.Text),
		TextType:     types.TextTypeText,
		VoiceId:      types.VoiceId(v.ID),
	}
	if req.Engine != "" {
		input.Engine = types.Engine(req.Engine)
	}

	out, err := c.api.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("polly: synthesize speech: %w", err)
	}
	if out.AudioStream == nil {
		return nil, fmt.Errorf("polly: response has no audio stream")
	}
	return out.AudioStream, nil
}

func outputFormat(f speech.Format) types.OutputFormat {
	switch f {
	case speech.FormatOggVorbis:
		return types.OutputFormatOggVorbis
	default:
		return types.OutputFormatMp3
	}
}
