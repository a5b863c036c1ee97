// Package prompt implements the terminal dialogue that collects the text and
// voice for a one-shot run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Text asks for the text to synthesize.
func (p *Prompter) Text() (string, error) {
	fmt.Fprint(p.out, "Enter the text you want to convert to speech: ")
	return p.readLine()
}

// Voice prints the voice menu and maps the answer with voice.FromChoice.
// Unrecognised answers, including end of input, select the default voice.
func (p *Prompter) Voice() (voice.Voice, error) {
	fmt.Fprintln(p.out, "Choose a voice from the list:")
	for _, e := range voice.Menu() {
		fmt.Fprintf(p.out, "%s: %s (%s)\n", e.Key, e.Voice.ID, e.Voice.Label)
	}
	fmt.Fprint(p.out, "Enter the number corresponding to your choice of voice: ")

	line, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return voice.Voice{}, err
	}
	return voice.FromChoice(line), nil
}

// readLine returns the next line without its terminator. A final line
// without newline is returned as-is; io.EOF is only reported when nothing was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
