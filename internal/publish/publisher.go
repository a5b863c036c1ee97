package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/speech"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/telemetry"
)

// DefaultPublicDomain is the S3 virtual-hosted public URL domain.
const DefaultPublicDomain = "s3.amazonaws.com"

var (
	// ErrNoBucket is returned by New when no bucket is configured.
	ErrNoBucket = errors.New("publish: bucket is required")
	// ErrEmptyArtifact is wrapped by PublishError for artifacts without data.
	ErrEmptyArtifact = errors.New("publish: artifact has no data")
)

// PublishError reports a failed durable write. Code holds the storage
// service's error code when known.
type PublishError struct {
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *PublishError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("publish: store s3://%s/%s (%s): %v", e.Bucket, e.Key, e.Code, e.Err)
	}
	return fmt.Sprintf("publish: store s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Object is one upload handed to an Uploader.
type Object struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	ACL         string
	Metadata    map[string]string
}

// Uploader writes an object to durable storage.
type Uploader interface {
	Upload(ctx context.Context, obj Object) error
}

// Location identifies a published artifact.
type Location struct {
	ID     string
	Bucket string
	Key    string
	URL    string
}

// Options configures a Publisher.
type Options struct {
	Bucket       string
	KeyPrefix    string
	PublicDomain string
	ACL          string
	// StagingDir holds the temporary upload file; empty means os.TempDir().
	StagingDir string
	Metadata   map[string]string
	Metrics    *telemetry.Recorder
}

// Publisher stores artifacts under fresh identifiers and returns their public URL.
type Publisher struct {
	uploader Uploader
	opts     Options
	metrics  *telemetry.Recorder
	log      *slog.Logger
	newID    func() string
}

// New validates opts and returns a Publisher.
func New(uploader Uploader, opts Options, logger *slog.Logger) (*Publisher, error) {
	if uploader == nil {
		return nil, fmt.Errorf("publish: uploader must not be nil")
	}
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}
	if opts.PublicDomain == "" {
		opts.PublicDomain = DefaultPublicDomain
	}
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	return &Publisher{
		uploader: uploader,
		opts:     opts,
		metrics:  metrics,
		log:      logger.With("component", "publisher", "bucket", opts.Bucket),
		newID:    uuid.NewString,
	}, nil
}

// Publish stages art in a temporary file, uploads it under a new UUID and
// returns its public location. The staging file is removed before Publish
// returns on every path. Every failure is a *PublishError.
func (p *Publisher) Publish(ctx context.Context, art speech.Artifact) (Location, error) {
	id := p.newID()
	key := p.opts.KeyPrefix + id + art.Format.Extension()
	logEntry := p.log.With("object_key", key, "bytes", len(art.Data))

	fail := func(err error) (Location, error) {
		pubErr := &PublishError{Bucket: p.opts.Bucket, Key: key, Code: speech.ErrorCode(err), Err: err}
		p.metrics.Failed("publish", pubErr)
		return Location{}, pubErr
	}

	if len(art.Data) == 0 {
		return fail(ErrEmptyArtifact)
	}

	staged, err := stage(p.opts.StagingDir, art)
	if err != nil {
		logEntry.Error("failed to stage artifact", "error", err)
		return fail(err)
	}
	defer p.release(staged, logEntry)

	start := time.Now()
	err = p.uploader.Upload(ctx, Object{
		Bucket:      p.opts.Bucket,
		Key:         key,
		Body:        staged,
		ContentType: art.Format.ContentType(),
		ACL:         p.opts.ACL,
		Metadata:    p.metadata(art),
	})
	if err != nil {
		logEntry.Error("upload failed", "error", err)
		return fail(err)
	}

	elapsed := time.Since(start)
	p.metrics.Published(key, len(art.Data), elapsed)
	logEntry.Info("artifact published", "duration_sec", elapsed.Seconds())

	return Location{
		ID:     id,
		Bucket: p.opts.Bucket,
		Key:    key,
		URL:    PublicURL(p.opts.Bucket, p.opts.PublicDomain, key),
	}, nil
}

// PublicURL builds https://<bucket>.<domain>/<key>.
func PublicURL(bucket, domain, key string) string {
	u := url.URL{
		Scheme: "https",
		Host:   bucket + "." + domain,
		Path:   "/" + key,
	}
	return u.String()
}

func (p *Publisher) metadata(art speech.Artifact) map[string]string {
	md := make(map[string]string, len(p.opts.Metadata)+1)
	maps.Copy(md, p.opts.Metadata)
	if art.VoiceID != "" {
		md["voice-id"] = art.VoiceID
	}
	return md
}

// stage writes art to a new temporary file positioned at offset zero.
// On error nothing is left on disk.
func stage(dir string, art speech.Artifact) (*os.File, error) {
	f, err := os.CreateTemp(dir, "polly-tts-*"+art.Format.Extension())
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	if _, err := f.Write(art.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write staging file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("rewind staging file: %w", err)
	}
	return f, nil
}

// release closes and removes the staging file. Failures are logged only.
func (p *Publisher) release(f *os.File, logEntry *slog.Logger) {
	if err := f.Close(); err != nil {
		logEntry.Warn("failed to close staging file", "path", f.Name(), "error", err)
	}
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		logEntry.Warn("failed to remove staging file", "path", f.Name(), "error", err)
	}
}
