package voice

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultID is the voice used when a selection is missing or unrecognised.
const DefaultID = "Joanna"

// ErrUnknownVoice is returned by Resolve under PolicyStrict.
var ErrUnknownVoice = errors.New("voice: unknown voice")

// Policy controls how unrecognised voice identifiers are handled.
type Policy string

const (
	// PolicyFallback substitutes the default voice.
	PolicyFallback Policy = "fallback"
	// PolicyStrict rejects unknown voices with ErrUnknownVoice.
	PolicyStrict Policy = "strict"
)

// Voice describes one supported synthesis voice.
type Voice struct {
	ID           string
	Label        string
	LanguageCode string
	Gender       string
	// GoogleName is the closest Google Cloud TTS voice for the same language and gender.
	GoogleName string
}

// MenuEntry pairs a numeric menu key with a voice.
type MenuEntry struct {
	Key   string
	Voice Voice
}

var catalog = []MenuEntry{
	{Key: "1", Voice: Voice{ID: "Joanna", Label: "English US - Female", LanguageCode: "en-US", Gender: "Female", GoogleName: "en-US-Standard-C"}},
	{Key: "2", Voice: Voice{ID: "Matthew", Label: "English US - Male", LanguageCode: "en-US", Gender: "Male", GoogleName: "en-US-Standard-D"}},
	{Key: "3", Voice: Voice{ID: "Miguel", Label: "Spanish - Male", LanguageCode: "es-US", Gender: "Male", GoogleName: "es-US-Standard-B"}},
	{Key: "4", Voice: Voice{ID: "Lucia", Label: "Spanish - Female", LanguageCode: "es-ES", Gender: "Female", GoogleName: "es-ES-Standard-A"}},
}

// Menu returns the numbered voice menu in display order.
func Menu() []MenuEntry {
	out := make([]MenuEntry, len(catalog))
	copy(out, catalog)
	return out
}

// Supported reports the identifiers of every catalogued voice.
func Supported() []string {
	ids := make([]string, 0, len(catalog))
	for _, e := range catalog {
		ids = append(ids, e.Voice.ID)
	}
	return ids
}

// Lookup finds a voice by identifier. Matching is case-insensitive.
func Lookup(id string) (Voice, bool) {
	id = strings.TrimSpace(id)
	for _, e := range catalog {
		if strings.EqualFold(e.Voice.ID, id) {
			return e.Voice, true
		}
	}
	return Voice{}, false
}

// Default returns the catalogue entry for DefaultID.
func Default() Voice {
	v, _ := Lookup(DefaultID)
	return v
}

// FromChoice maps a menu key to a voice, returning the default voice for any
// key that is not on the menu.
func FromChoice(choice string) Voice {
	choice = strings.TrimSpace(choice)
	for _, e := range catalog {
		if e.Key == choice {
			return e.Voice
		}
	}
	return Default()
}

// Resolver maps requested voice identifiers onto the catalogue.
type Resolver struct {
	Fallback Voice
	Policy   Policy
}

// NewResolver builds a Resolver whose fallback is fallbackID. An unknown
// fallbackID is an error regardless of policy.
func NewResolver(fallbackID string, policy Policy) (Resolver, error) {
	if fallbackID == "" {
		fallbackID = DefaultID
	}
	fallback, ok := Lookup(fallbackID)
	if !ok {
		return Resolver{}, fmt.Errorf("%w: default voice %q (supported: %s)", ErrUnknownVoice, fallbackID, strings.Join(Supported(), ", "))
	}
	if policy == "" {
		policy = PolicyFallback
	}
	return Resolver{Fallback: fallback, Policy: policy}, nil
}

// Resolve returns the voice for id. An empty id always yields the fallback.
func (r Resolver) Resolve(id string) (Voice, error) {
	fallback := r.Fallback
	if fallback.ID == "" {
		fallback = Default()
	}
	if strings.TrimSpace(id) == "" {
		return fallback, nil
	}
	if v, ok := Lookup(id); ok {
		return v, nil
	}
	if r.Policy == PolicyStrict {
		return Voice{}, fmt.Errorf("%w: %q", ErrUnknownVoice, id)
	}
	return fallback, nil
}
