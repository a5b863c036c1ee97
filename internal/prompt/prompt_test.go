package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestTextAndVoice(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("Hello world\r\n2\n"), &out)

	text, err := p.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("text = %q, want %q", text, "Hello world")
	}

	v, err := p.Voice()
	if err != nil {
		t.Fatalf("Voice: %v", err)
	}
	if v.ID != "Matthew" {
		t.Errorf("voice = %q, want Matthew", v.ID)
	}

	printed := out.String()
	for _, want := range []string{"Enter the text", "1: Joanna (English US - Female)", "4: Lucia (Spanish - Female)", "choice of voice"} {
		if !strings.Contains(printed, want) {
			t.Errorf("output missing %q:\n%s", want, printed)
		}
	}
}

func TestVoiceDefaultsOnInvalidChoice(t *testing.T) {
	for _, input := range []string{"9\n", "abc\n", "\n", ""} {
		p := New(strings.NewReader(input), io.Discard)
		v, err := p.Voice()
		if err != nil {
			t.Fatalf("Voice(%q): %v", input, err)
		}
		if v.ID != "Joanna" {
			t.Errorf("Voice(%q) = %q, want Joanna", input, v.ID)
		}
	}
}

func TestTextWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader("last line"), io.Discard)
	text, err := p.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "last line" {
		t.Errorf("text = %q", text)
	}
}

func TestTextEOF(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard)
	if _, err := p.Text(); !errors.Is(err, io.EOF) {
		t.Errorf("error = %v, want io.EOF", err)
	}
}
