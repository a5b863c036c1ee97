package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	napv1 "github.com/nupi-ai/nupi/api/nap/v1"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/adapterinfo"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/config"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/pipeline"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/telemetry"
)

const chunkSize = 4096 // bytes per streamed audio chunk

// Request metadata keys understood by StreamSynthesis.
const (
	MetadataVoiceID = "voice_id"
	MetadataPublish = "publish"
)

// Server implements the TextToSpeechService on top of the speech pipeline.
type Server struct {
	napv1.UnimplementedTextToSpeechServiceServer

	cfg     config.Config
	log     *slog.Logger
	synth   pipeline.Synthesizer
	pub     pipeline.Publisher // nil when publishing is disabled
	metrics *telemetry.Recorder
}

// New returns a new Server instance.
func New(cfg config.Config, logger *slog.Logger, synth pipeline.Synthesizer, pub pipeline.Publisher, metrics *telemetry.Recorder) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if synth == nil {
		panic("server: synthesizer must not be nil")
	}
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	return &Server{
		cfg: cfg,
		log: logger.With(
			"component", "server",
			"provider", cfg.Provider,
			"engine", cfg.Engine,
		),
		synth:   synth,
		pub:     pub,
		metrics: metrics,
	}
}

// StreamSynthesis synthesizes the request text, streams it back in chunks and
// optionally publishes it, reporting the URL in the FINISHED metadata.
func (s *Server) StreamSynthesis(req *napv1.StreamSynthesisRequest, stream napv1.TextToSpeechService_StreamSynthesisServer) error {
	if req == nil {
		return fmt.Errorf("server: request is nil")
	}

	text := req.GetText()
	metadata := req.GetMetadata()
	voiceID := resolveVoice(s.cfg.VoiceID, metadata)

	logEntry := s.log.With(
		"session_id", req.GetSessionId(),
		"stream_id", req.GetStreamId(),
		"text_length", len(text),
		"voice_id", voiceID,
	)

	if text == "" {
		logEntry.Warn("empty text in synthesis request")
		s.metrics.Failed("stream", speech.ErrEmptyText)
		return s.sendError(stream, "text is required")
	}

	logEntry.Info("synthesis request received")

	if err := s.sendStatus(stream, napv1.SynthesisStatus_SYNTHESIS_STATUS_STARTED, nil); err != nil {
		logEntry.Error("failed to send started status", "error", err)
		return err
	}

	ctx := stream.Context()
	start := time.Now()

	art, err := s.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		logEntry.Error("synthesis failed", "error", err)
		return s.sendError(stream, fmt.Sprintf("synthesis failed: %v", err))
	}

	if err := s.sendStatus(stream, napv1.SynthesisStatus_SYNTHESIS_STATUS_PLAYING, nil); err != nil {
		logEntry.Error("failed to send playing status", "error", err)
		return err
	}

	chunkMeta := adapterinfo.ChunkMetadata(s.cfg.Engine, art.VoiceID)
	var sequence uint64
	for offset := 0; offset < len(art.Data); offset += chunkSize {
		if err := ctx.Err(); err != nil {
			logEntry.Info("synthesis interrupted", "reason", err)
			return s.sendStatus(stream, napv1.SynthesisStatus_SYNTHESIS_STATUS_INTERRUPTED, map[string]string{
				"reason": err.Error(),
			})
		}

		end := min(offset+chunkSize, len(art.Data))
		sequence++

		resp := &napv1.SynthesisResponse{
			Status: napv1.SynthesisStatus_SYNTHESIS_STATUS_PLAYING,
			Chunk: &napv1.AudioChunk{
				Data:     art.Data[offset:end],
				Sequence: sequence,
				First:    sequence == 1,
				Last:     end == len(art.Data),
				Metadata: chunkMeta,
			},
		}
		if err := stream.Send(resp); err != nil {
			logEntry.Error("failed to send audio chunk", "error", err, "sequence", sequence)
			return err
		}
		logEntry.Debug("sent audio chunk", "sequence", sequence, "bytes", end-offset)
	}

	duration := time.Since(start)
	finished := map[string]string{
		"total_bytes":  strconv.Itoa(len(art.Data)),
		"total_chunks": strconv.FormatUint(sequence, 10),
		"duration_sec": fmt.Sprintf("%.2f", duration.Seconds()),
		"text_length":  strconv.Itoa(len(text)),
		"voice_id":     art.VoiceID,
		"format":       string(art.Format),
	}

	if s.shouldPublish(metadata) {
		loc, err := s.pub.Publish(ctx, art)
		if err != nil {
			logEntry.Error("publish failed", "error", err)
			return s.sendError(stream, fmt.Sprintf("publish failed: %v", err))
		}
		finished["url"] = loc.URL
		finished["object_id"] = loc.ID
		logEntry.Info("artifact published", "url", loc.URL)
	}

	logEntry.Info("synthesis completed",
		"total_bytes", len(art.Data),
		"chunks", sequence,
		"duration_sec", duration.Seconds(),
	)

	return s.sendStatus(stream, napv1.SynthesisStatus_SYNTHESIS_STATUS_FINISHED, finished)
}

// shouldPublish honours an explicit publish=true|false in request metadata
// and otherwise falls back to the configured default.
func (s *Server) shouldPublish(metadata map[string]string) bool {
	if s.pub == nil {
		return false
	}
	if raw, ok := metadata[MetadataPublish]; ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return v
		}
	}
	return s.cfg.ServePublish
}

func (s *Server) sendStatus(stream napv1.TextToSpeechService_StreamSynthesisServer, status napv1.SynthesisStatus, metadata map[string]string) error {
	resp := &napv1.SynthesisResponse{
		Status:   status,
		Metadata: metadata,
	}
	return stream.Send(resp)
}

// sendError reports a failure to the client. Synthesis and publish failures
// are already counted by their components.
func (s *Server) sendError(stream napv1.TextToSpeechService_StreamSynthesisServer, message string) error {
	resp := &napv1.SynthesisResponse{
		Status:       napv1.SynthesisStatus_SYNTHESIS_STATUS_ERROR,
		ErrorMessage: message,
	}
	if err := stream.Send(resp); err != nil {
		return err
	}
	return fmt.Errorf("synthesis error: %s", message)
}

// resolveVoice picks the voice requested in metadata, falling back to the
// configured voice. Catalogue validation is left to the synthesizer.
func resolveVoice(configVoice string, metadata map[string]string) string {
	if id := strings.TrimSpace(metadata[MetadataVoiceID]); id != "" {
		return id
	}
	return configVoice
}
