package config

import (
	"testing"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := Config{Bucket: "audio-bucket"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.Region != DefaultRegion {
		t.Errorf("Region = %q, want %q", cfg.Region, DefaultRegion)
	}
	if cfg.Provider != DefaultProvider {
		t.Errorf("Provider = %q, want %q", cfg.Provider, DefaultProvider)
	}
	if cfg.VoiceID != voice.DefaultID {
		t.Errorf("VoiceID = %q, want %q", cfg.VoiceID, voice.DefaultID)
	}
	if cfg.VoicePolicy != voice.PolicyFallback {
		t.Errorf("VoicePolicy = %q, want %q", cfg.VoicePolicy, voice.PolicyFallback)
	}
	if cfg.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", cfg.Engine, DefaultEngine)
	}
	if cfg.OutputFormat != DefaultOutputFormat {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, DefaultOutputFormat)
	}
	if cfg.PublicDomain != DefaultPublicDomain {
		t.Errorf("PublicDomain = %q, want %q", cfg.PublicDomain, DefaultPublicDomain)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestValidateRequiresBucket(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.Provider = "azure" }},
		{"voice", func(c *Config) { c.VoiceID = "Brian" }},
		{"voice_policy", func(c *Config) { c.VoicePolicy = "loose" }},
		{"engine", func(c *Config) { c.Engine = "generative" }},
		{"output_format", func(c *Config) { c.OutputFormat = "wav" }},
		{"cache_size", func(c *Config) { c.CacheMaxSizeMB = -1 }},
		{"google_neural", func(c *Config) { c.Provider = ProviderGoogle; c.Engine = "neural" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Bucket: "audio-bucket"}
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected error for invalid %s", tt.name)
			}
		})
	}
}

func TestValidateEngineByProvider(t *testing.T) {
	for _, provider := range []string{ProviderPolly, ProviderStub} {
		cfg := Config{Bucket: "audio-bucket", Provider: provider, Engine: "neural"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s with neural engine: %v", provider, err)
		}
	}
	cfg := Config{Bucket: "audio-bucket", Provider: ProviderGoogle}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("google with default engine: %v", err)
	}
	if cfg.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", cfg.Engine, DefaultEngine)
	}
}

func TestValidateCacheMaxSizeMB(t *testing.T) {
	cfg := Config{Bucket: "audio-bucket", CacheMaxSizeMB: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("CacheMaxSizeMB=0 should be valid (disabled): %v", err)
	}

	cfg.CacheMaxSizeMB = 200
	if err := cfg.Validate(); err != nil {
		t.Fatalf("CacheMaxSizeMB=200 should be valid: %v", err)
	}
}
