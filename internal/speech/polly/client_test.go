package polly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

type fakeAPI struct {
	audio []byte
	err   error
	input *awspolly.SynthesizeSpeechInput
}

func (f *fakeAPI) SynthesizeSpeech(_ context.Context, params *awspolly.SynthesizeSpeechInput, _ ...func(*awspolly.Options)) (*awspolly.SynthesizeSpeechOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &awspolly.SynthesizeSpeechOutput{
		AudioStream: io.NopCloser(bytes.NewReader(f.audio)),
		ContentType: aws.String("audio/mpeg"),
	}, nil
}

func TestSynthesizeStreamSuccess(t *testing.T) {
	api := &fakeAPI{audio: []byte{0xFF, 0xFB, 0x90}}
	c := NewClient(api)

	joanna, _ := voice.Lookup("Joanna")
	rc, err := c.SynthesizeStream(context.Background(), joanna, speech.Request{Text: "Hello world", Engine: "neural", Format: speech.FormatMP3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !bytes.Equal(got, api.audio) {
		t.Errorf("got %v, want %v", got, api.audio)
	}

	in := api.input
	if aws.ToString(in.Text) != "Hello world" {
		t.Errorf("Text = %q", aws.ToString(in.Text))
	}
	if in.VoiceId != types.VoiceIdJoanna {
		t.Errorf("VoiceId = %q, want Joanna", in.VoiceId)
	}
	if in.OutputFormat != types.OutputFormatMp3 {
		t.Errorf("OutputFormat = %q, want mp3", in.OutputFormat)
	}
	if in.Engine != types.EngineNeural {
		t.Errorf("Engine = %q, want neural", in.Engine)
	}
	if in.TextType != types.TextTypeText {
		t.Errorf("TextType = %q, want text", in.TextType)
	}
}

func TestSynthesizeStreamOggFormat(t *testing.T) {
	api := &fakeAPI{audio: []byte("OggS")}
	c := NewClient(api)

	rc, err := c.SynthesizeStream(context.Background(), voice.Default(), speech.Request{Text: "hi", Format: speech.FormatOggVorbis})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rc.Close()
	if api.input.OutputFormat != types.OutputFormatOggVorbis {
		t.Errorf("OutputFormat = %q, want ogg_vorbis", api.input.OutputFormat)
	}
	if api.input.Engine != "" {
		t.Errorf("Engine = %q, want unset", api.input.Engine)
	}
}

func TestSynthesizeStreamAPIError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
	c := NewClient(&fakeAPI{err: apiErr})

	_, err := c.SynthesizeStream(context.Background(), voice.Default(), speech.Request{Text: "hello"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("error = %v, want wrapped API error", err)
	}
	if code := speech.ErrorCode(err); code != "ThrottlingException" {
		t.Errorf("ErrorCode = %q, want ThrottlingException", code)
	}
}

func TestSynthesizeStreamValidation(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)
	if _, err := c.SynthesizeStream(context.Background(), voice.Voice{}, speech.Request{Text: "hello"}); err == nil {
		t.Error("expected error for empty voice")
	}
	if _, err := c.SynthesizeStream(context.Background(), voice.Default(), speech.Request{}); err == nil {
		t.Error("expected error for empty text")
	}
	if api.input != nil {
		t.Error("API should not be called for invalid requests")
	}
}
