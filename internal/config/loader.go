package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/voice"
)

// DefaultDotEnvPath is read when Loader.DotEnvPath is empty.
const DefaultDotEnvPath = ".env"

// Loader loads configuration from environment variables, falling back to a
// .env file for keys the environment does not define. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup     func(string) (string, bool)
	DotEnvPath string
}

// Load retrieves the configuration and validates it.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}
	lookup, err := l.withDotEnv()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:     DefaultListenAddr,
		CacheMaxSizeMB: DefaultCacheMaxSizeMB,
	}

	if raw, ok := lookup("POLLY_TTS_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(lookup, "AWS_ACCESS_KEY_ID", &cfg.AccessKeyID)
	overrideString(lookup, "AWS_SECRET_ACCESS_KEY", &cfg.SecretAccessKey)
	overrideString(lookup, "AWS_SESSION_TOKEN", &cfg.SessionToken)
	overrideString(lookup, "AWS_DEFAULT_REGION", &cfg.Region)
	overrideString(lookup, "AWS_REGION", &cfg.Region)
	overrideString(lookup, "AWS_ENDPOINT_URL", &cfg.Endpoint)
	overrideString(lookup, "POLLY_TTS_BUCKET", &cfg.Bucket)
	overrideString(lookup, "POLLY_TTS_VOICE", &cfg.VoiceID)
	overrideString(lookup, "POLLY_TTS_PROVIDER", &cfg.Provider)
	overrideString(lookup, "POLLY_TTS_LISTEN_ADDR", &cfg.ListenAddr)
	overrideString(lookup, "POLLY_TTS_LOG_LEVEL", &cfg.LogLevel)
	overrideString(lookup, "POLLY_TTS_LOG_FILE", &cfg.LogFile)
	overrideString(lookup, "POLLY_TTS_STAGING_DIR", &cfg.StagingDir)
	if err := overrideBool(lookup, "POLLY_TTS_SERVE_PUBLISH", &cfg.ServePublish); err != nil {
		return Config{}, err
	}

	// Default cache directory
	if cfg.CacheDir == "" {
		if dataDir, ok := lookup("POLLY_TTS_DATA_DIR"); ok && dataDir != "" {
			cfg.CacheDir = filepath.Join(dataDir, "cache")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDotEnv layers the .env file beneath l.Lookup. A missing file is not an error.
func (l Loader) withDotEnv() (func(string) (string, bool), error) {
	path := l.DotEnvPath
	if path == "" {
		path = DefaultDotEnvPath
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l.Lookup, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := l.Lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		ListenAddr     string `json:"listen_addr"`
		LogLevel       string `json:"log_level"`
		LogFile        string `json:"log_file"`
		Region         string `json:"region"`
		Endpoint       string `json:"endpoint"`
		Provider       string `json:"provider"`
		VoiceID        string `json:"voice_id"`
		VoicePolicy    string `json:"voice_policy"`
		Engine         string `json:"engine"`
		OutputFormat   string `json:"output_format"`
		Bucket         string `json:"bucket"`
		KeyPrefix      string `json:"key_prefix"`
		PublicDomain   string `json:"public_domain"`
		ObjectACL      string `json:"object_acl"`
		StagingDir     string `json:"staging_dir"`
		ServePublish   *bool  `json:"serve_publish"`
		CacheDir       string `json:"cache_dir"`
		CacheMaxSizeMB *int   `json:"cache_max_size_mb"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode POLLY_TTS_CONFIG: %w", err)
	}
	assignString(&cfg.ListenAddr, payload.ListenAddr)
	assignString(&cfg.LogLevel, payload.LogLevel)
	assignString(&cfg.LogFile, payload.LogFile)
	assignString(&cfg.Region, payload.Region)
	assignString(&cfg.Endpoint, payload.Endpoint)
	assignString(&cfg.Provider, payload.Provider)
	assignString(&cfg.VoiceID, payload.VoiceID)
	assignString(&cfg.Engine, payload.Engine)
	assignString(&cfg.OutputFormat, payload.OutputFormat)
	assignString(&cfg.Bucket, payload.Bucket)
	assignString(&cfg.KeyPrefix, payload.KeyPrefix)
	assignString(&cfg.PublicDomain, payload.PublicDomain)
	assignString(&cfg.ObjectACL, payload.ObjectACL)
	assignString(&cfg.StagingDir, payload.StagingDir)
	assignString(&cfg.CacheDir, payload.CacheDir)
	if payload.VoicePolicy != "" {
		cfg.VoicePolicy = voice.Policy(payload.VoicePolicy)
	}
	if payload.ServePublish != nil {
		cfg.ServePublish = *payload.ServePublish
	}
	if payload.CacheMaxSizeMB != nil {
		cfg.CacheMaxSizeMB = *payload.CacheMaxSizeMB
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*target = b
	return nil
}

func assignString(target *string, value string) {
	if value != "" {
		*target = value
	}
}
