package speech

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"google.golang.org/grpc/status"
)

var (
	// ErrEmptyText is wrapped by SynthesisError when the request carries no text.
	ErrEmptyText = errors.New("speech: text is required")
	// ErrEmptyAudio is wrapped by SynthesisError when the service returned no bytes.
	ErrEmptyAudio = errors.New("speech: service returned no audio")
)

// SynthesisError reports that the synthesis service rejected a request or
// could not be reached. Code holds the service's error code when known.
type SynthesisError struct {
	VoiceID string
	Code    string
	Err     error
}

func (e *SynthesisError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("speech: synthesis failed for voice %s (%s): %v", e.VoiceID, e.Code, e.Err)
	}
	return fmt.Sprintf("speech: synthesis failed for voice %s: %v", e.VoiceID, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// ErrorCode extracts a provider error code from an AWS or gRPC error chain.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	if st, ok := status.FromError(err); ok && st.Code() != 0 {
		return st.Code().String()
	}
	return ""
}
