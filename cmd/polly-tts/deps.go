package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/adapterinfo"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/awsclient"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/cache"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/config"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/publish"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech/google"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech/polly"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/telemetry"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// deps holds the long-lived clients shared by both run modes.
type deps struct {
	synth   *speech.Synthesizer
	pub     *publish.Publisher
	metrics *telemetry.Recorder
	closers []io.Closer
}

func (d *deps) Close() {
	for _, c := range d.closers {
		c.Close()
	}
}

func buildDeps(ctx context.Context, cfg config.Config, logger *slog.Logger) (*deps, error) {
	d := &deps{metrics: telemetry.NewRecorder(logger)}

	awsCfg, err := awsclient.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(ctx, cfg, awsCfg, logger, d)
	if err != nil {
		d.Close()
		return nil, err
	}

	resolver, err := voice.NewResolver(cfg.VoiceID, cfg.VoicePolicy)
	if err != nil {
		d.Close()
		return nil, err
	}

	var audioCache *cache.Cache
	if cfg.CacheMaxSizeMB > 0 && cfg.CacheDir != "" {
		audioCache, err = cache.New(cfg.CacheDir, int64(cfg.CacheMaxSizeMB)*1024*1024, logger)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without", "error", err)
			audioCache = nil
		} else {
			logger.Info("audio cache initialized", "dir", cfg.CacheDir, "max_size_mb", cfg.CacheMaxSizeMB)
		}
	}

	d.synth = speech.NewSynthesizer(backend, resolver, speech.Options{
		Provider: cfg.Provider,
		Engine:   cfg.Engine,
		Format:   speech.Format(cfg.OutputFormat),
		Cache:    audioCache,
		Metrics:  d.metrics,
	}, logger)

	client := s3.NewFromConfig(awsCfg, awsclient.S3Options(cfg)...)
	d.pub, err = publish.New(publish.NewS3Uploader(client), publish.Options{
		Bucket:       cfg.Bucket,
		KeyPrefix:    cfg.KeyPrefix,
		PublicDomain: cfg.PublicDomain,
		ACL:          cfg.ObjectACL,
		StagingDir:   cfg.StagingDir,
		Metadata:     adapterinfo.ObjectMetadata(cfg.Engine),
		Metrics:      d.metrics,
	}, logger)
	if err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func newBackend(ctx context.Context, cfg config.Config, awsCfg aws.Config, logger *slog.Logger, d *deps) (speech.Backend, error) {
	switch cfg.Provider {
	case config.ProviderStub:
		logger.Info("using STUB backend, audio is deterministic and NOT from a speech service")
		return speech.NewStubBackend(logger), nil
	case config.ProviderGoogle:
		client, err := google.Dial(ctx)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, client)
		logger.Info("Google Text-to-Speech client initialized")
		return client, nil
	case config.ProviderPolly:
		logger.Info("Polly client initialized", "region", awsCfg.Region)
		return polly.NewFromConfig(awsCfg, awsclient.PollyOptions(cfg)...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newLogger builds the text handler; a configured log file replaces out with
// a rotating writer.
func newLogger(level, logFile string, out io.Writer) (*slog.Logger, func()) {
	closeFn := func() {}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = rotating
		closeFn = func() { rotating.Close() }
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler), closeFn
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
