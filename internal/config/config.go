package config

import (
	"fmt"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

const (
	// DefaultListenAddr is used by serve mode when no explicit address is configured.
	DefaultListenAddr     = "127.0.0.1:50051"
	DefaultRegion         = "us-east-1"
	DefaultProvider       = ProviderPolly
	DefaultEngine         = "standard"
	DefaultOutputFormat   = "mp3"
	DefaultPublicDomain   = "s3.amazonaws.com"
	DefaultLogLevel       = "info"
	DefaultCacheMaxSizeMB = 100
)

// Synthesis providers.
const (
	ProviderPolly  = "polly"
	ProviderGoogle = "google"
	ProviderStub   = "stub"
)

// Config captures bootstrap configuration extracted from environment variables,
// a .env file or the injected JSON payload (`POLLY_TTS_CONFIG`).
type Config struct {
	ListenAddr string
	LogLevel   string
	LogFile    string

	// AWS access. Empty keys defer to the SDK default credential chain.
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string

	// Synthesis
	Provider     string
	VoiceID      string
	VoicePolicy  voice.Policy
	Engine       string
	OutputFormat string

	// Publishing
	Bucket       string
	KeyPrefix    string
	PublicDomain string
	ObjectACL    string
	StagingDir   string
	ServePublish bool

	CacheDir       string
	CacheMaxSizeMB int
}

// Validate applies defaults and raises an error when required fields are missing.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Bucket == "" {
		return fmt.Errorf("config: bucket is required (set POLLY_TTS_BUCKET)")
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	switch c.Provider {
	case ProviderPolly, ProviderGoogle, ProviderStub:
	default:
		return fmt.Errorf("config: provider must be one of polly, google, stub, got %q", c.Provider)
	}
	if c.VoiceID == "" {
		c.VoiceID = voice.DefaultID
	}
	if _, ok := voice.Lookup(c.VoiceID); !ok {
		return fmt.Errorf("config: voice_id %q is not a supported voice", c.VoiceID)
	}
	if c.VoicePolicy == "" {
		c.VoicePolicy = voice.PolicyFallback
	}
	if c.VoicePolicy != voice.PolicyFallback && c.VoicePolicy != voice.PolicyStrict {
		return fmt.Errorf("config: voice_policy must be fallback or strict, got %q", c.VoicePolicy)
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	if c.Engine != "standard" && c.Engine != "neural" {
		return fmt.Errorf("config: engine must be standard or neural, got %q", c.Engine)
	}
	// Google voices are fixed per catalogue entry; there is no engine switch.
	if c.Provider == ProviderGoogle && c.Engine != DefaultEngine {
		return fmt.Errorf("config: engine %q is not supported by the google provider", c.Engine)
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
	if c.OutputFormat != "mp3" && c.OutputFormat != "ogg_vorbis" {
		return fmt.Errorf("config: output_format must be mp3 or ogg_vorbis, got %q", c.OutputFormat)
	}
	if c.PublicDomain == "" {
		c.PublicDomain = DefaultPublicDomain
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.CacheMaxSizeMB < 0 {
		return fmt.Errorf("config: cache_max_size_mb must be >= 0, got %d", c.CacheMaxSizeMB)
	}

	return nil
}
