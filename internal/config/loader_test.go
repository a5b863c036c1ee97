package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

func fakeEnv(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// noDotEnv points the loader at a path that does not exist.
func noDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoaderFromJSON(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_CONFIG": `{
			"bucket": "speech-out",
			"voice_id": "Matthew",
			"voice_policy": "strict",
			"engine": "neural",
			"key_prefix": "tts/",
			"serve_publish": true,
			"cache_dir": "/tmp/cache",
			"cache_max_size_mb": 50
		}`,
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bucket != "speech-out" {
		t.Errorf("Bucket = %q, want %q", cfg.Bucket, "speech-out")
	}
	if cfg.VoiceID != "Matthew" {
		t.Errorf("VoiceID = %q, want %q", cfg.VoiceID, "Matthew")
	}
	if cfg.VoicePolicy != voice.PolicyStrict {
		t.Errorf("VoicePolicy = %q, want %q", cfg.VoicePolicy, voice.PolicyStrict)
	}
	if cfg.Engine != "neural" {
		t.Errorf("Engine = %q, want neural", cfg.Engine)
	}
	if cfg.KeyPrefix != "tts/" {
		t.Errorf("KeyPrefix = %q, want %q", cfg.KeyPrefix, "tts/")
	}
	if !cfg.ServePublish {
		t.Error("ServePublish = false, want true")
	}
	if cfg.CacheDir != "/tmp/cache" {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, "/tmp/cache")
	}
	if cfg.CacheMaxSizeMB != 50 {
		t.Errorf("CacheMaxSizeMB = %d, want 50", cfg.CacheMaxSizeMB)
	}
}

func TestLoaderDefaults(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_BUCKET": "speech-out",
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Region != DefaultRegion {
		t.Errorf("Region = %q, want default %q", cfg.Region, DefaultRegion)
	}
	if cfg.VoiceID != voice.DefaultID {
		t.Errorf("VoiceID = %q, want default %q", cfg.VoiceID, voice.DefaultID)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want default %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.CacheMaxSizeMB != DefaultCacheMaxSizeMB {
		t.Errorf("CacheMaxSizeMB = %d, want default %d", cfg.CacheMaxSizeMB, DefaultCacheMaxSizeMB)
	}
	if cfg.CacheDir != "" {
		t.Errorf("CacheDir = %q, want empty without POLLY_TTS_DATA_DIR", cfg.CacheDir)
	}
}

func TestLoaderMissingBucket(t *testing.T) {
	_, err := (Loader{Lookup: fakeEnv(map[string]string{}), DotEnvPath: noDotEnv(t)}).Load()
	if err == nil {
		t.Fatal("expected error when no bucket is configured")
	}
}

func TestLoaderAWSEnvironment(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_BUCKET":      "speech-out",
		"AWS_ACCESS_KEY_ID":     "AKIDEXAMPLE",
		"AWS_SECRET_ACCESS_KEY": "secret",
		"AWS_REGION":            "eu-west-1",
		"AWS_DEFAULT_REGION":    "eu-central-1",
		"AWS_ENDPOINT_URL":      "http://localhost:4566",
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AccessKeyID != "AKIDEXAMPLE" || cfg.SecretAccessKey != "secret" {
		t.Errorf("credentials = %q/%q", cfg.AccessKeyID, cfg.SecretAccessKey)
	}
	// AWS_REGION takes precedence over AWS_DEFAULT_REGION.
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "eu-west-1")
	}
	if cfg.Endpoint != "http://localhost:4566" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
}

func TestLoaderDefaultRegionFallback(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_BUCKET":   "speech-out",
		"AWS_DEFAULT_REGION": "ap-southeast-2",
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Region != "ap-southeast-2" {
		t.Errorf("Region = %q, want %q", cfg.Region, "ap-southeast-2")
	}
}

func TestLoaderEnvOverridesJSON(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_CONFIG":   `{"bucket": "from-json", "voice_id": "Lucia"}`,
		"POLLY_TTS_BUCKET":   "from-env",
		"POLLY_TTS_VOICE":    "Miguel",
		"POLLY_TTS_DATA_DIR": "/var/lib/polly-tts",
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bucket != "from-env" {
		t.Errorf("Bucket = %q, want %q", cfg.Bucket, "from-env")
	}
	if cfg.VoiceID != "Miguel" {
		t.Errorf("VoiceID = %q, want %q", cfg.VoiceID, "Miguel")
	}
	if cfg.CacheDir != filepath.Join("/var/lib/polly-tts", "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
}

func TestLoaderDotEnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "POLLY_TTS_BUCKET=dotenv-bucket\nPOLLY_TTS_VOICE=Matthew\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	env := fakeEnv(map[string]string{
		"POLLY_TTS_VOICE": "Lucia",
	})

	cfg, err := (Loader{Lookup: env, DotEnvPath: path}).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bucket != "dotenv-bucket" {
		t.Errorf("Bucket = %q, want value from .env", cfg.Bucket)
	}
	if cfg.VoiceID != "Lucia" {
		t.Errorf("VoiceID = %q, want environment to win over .env", cfg.VoiceID)
	}
}

func TestLoaderInvalidJSON(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_CONFIG": `{not json`,
	})
	if _, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoaderInvalidServePublish(t *testing.T) {
	env := fakeEnv(map[string]string{
		"POLLY_TTS_BUCKET":        "speech-out",
		"POLLY_TTS_SERVE_PUBLISH": "sometimes",
	})
	if _, err := (Loader{Lookup: env, DotEnvPath: noDotEnv(t)}).Load(); err == nil {
		t.Fatal("expected error for non-boolean POLLY_TTS_SERVE_PUBLISH")
	}
}
