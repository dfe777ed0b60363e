package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/protocol"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vdiff.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "vdiff.toml"

	// DefaultAddr is the default server listen address.
	DefaultAddr = "localhost:7070"

	// DefaultHistory is the default number of batches kept per mount.
	DefaultHistory = 256

	// DefaultSubscriberBuffer is the default per-subscriber frame queue.
	DefaultSubscriberBuffer = 64

	// DefaultRootTag is the default tag of a mount's root node.
	DefaultRootTag = "body"
)

// Snapshot backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

// Config is the complete vdiff configuration.
type Config struct {
	// Server contains render server settings.
	Server ServerConfig `json:"server" toml:"server"`

	// Protocol contains wire decoder limits.
	Protocol ProtocolConfig `json:"protocol" toml:"protocol"`

	// Snapshot selects and configures the snapshot store.
	Snapshot SnapshotConfig `json:"snapshot" toml:"snapshot"`

	// Log contains logging settings.
	Log LogConfig `json:"log" toml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains render server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" toml:"addr"`

	// RootTag is the tag of every mount's root node.
	RootTag string `json:"rootTag,omitempty" toml:"root_tag"`

	// History is the number of batches kept per mount for late subscribers.
	History int `json:"history,omitempty" toml:"history"`

	// SubscriberBuffer is the number of frames queued per WebSocket
	// subscriber before it is dropped as too slow.
	SubscriberBuffer int `json:"subscriberBuffer,omitempty" toml:"subscriber_buffer"`

	// ReleaseHandles drops a mount's handles after every render.
	ReleaseHandles bool `json:"releaseHandles,omitempty" toml:"release_handles"`

	// ShutdownTimeout is how long Shutdown waits (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdown_timeout"`
}

// ProtocolConfig bounds what decoders will accept.
type ProtocolConfig struct {
	MaxString    int `json:"maxString,omitempty" toml:"max_string"`
	MaxMutations int `json:"maxMutations,omitempty" toml:"max_mutations"`
	MaxPayload   int `json:"maxPayload,omitempty" toml:"max_payload"`
}

// SnapshotConfig selects and configures the snapshot store.
type SnapshotConfig struct {
	// Backend is "memory", "redis" or "s3".
	Backend string `json:"backend,omitempty" toml:"backend"`

	// Prefix is prepended to every snapshot key.
	Prefix string `json:"prefix,omitempty" toml:"prefix"`

	Redis RedisConfig `json:"redis" toml:"redis"`
	S3    S3Config    `json:"s3" toml:"s3"`
}

// RedisConfig configures the Redis snapshot store.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" toml:"addr"`
	Password string `json:"password,omitempty" toml:"password"`
	DB       int    `json:"db,omitempty" toml:"db"`

	// TTL expires snapshots (e.g., "24h"); empty keeps them forever.
	TTL string `json:"ttl,omitempty" toml:"ttl"`
}

// S3Config configures the S3 snapshot store.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" toml:"bucket"`
	Region          string `json:"region,omitempty" toml:"region"`
	Endpoint        string `json:"endpoint,omitempty" toml:"endpoint"`
	AccessKeyID     string `json:"accessKeyId,omitempty" toml:"access_key_id"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" toml:"secret_access_key"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty" toml:"use_path_style"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" toml:"level"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:             DefaultAddr,
			RootTag:          DefaultRootTag,
			History:          DefaultHistory,
			SubscriberBuffer: DefaultSubscriberBuffer,
			ShutdownTimeout:  "10s",
		},
		Protocol: ProtocolConfig{
			MaxString:    protocol.DefaultMaxString,
			MaxMutations: protocol.DefaultMaxMutations,
			MaxPayload:   protocol.DefaultMaxPayload,
		},
		Snapshot: SnapshotConfig{
			Backend: BackendMemory,
			Prefix:  "vdiff/",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vdiff.json, then vdiff.toml. With neither present it returns defaults.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension: .toml is TOML, anything else is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigLoad).
				WithSource(path).
				WithDetail("No configuration file found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or " + TOMLFileName + ", or omit --config to use defaults")
		}
		return nil, errors.New(errors.CodeConfigLoad).WithSource(path).Wrap(err)
	}

	cfg := New()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfigLoad).
				WithSource(path).
				WithDetail("Failed to parse TOML: " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid TOML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfigLoad).
				WithSource(path).
				WithDetail("Failed to parse JSON: " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path, as TOML when the
// extension is .toml and as indented JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return errors.New(errors.CodeConfigLoad).Wrap(err)
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New(errors.CodeConfigLoad).Wrap(err)
		}
		// Add newline at end of file
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigLoad).WithSource(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv overrides fields from VDIFF_ADDR and VDIFF_LOG_LEVEL.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("VDIFF_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv("VDIFF_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.RootTag == "" {
		c.Server.RootTag = d.Server.RootTag
	}
	if c.Server.History == 0 {
		c.Server.History = d.Server.History
	}
	if c.Server.SubscriberBuffer == 0 {
		c.Server.SubscriberBuffer = d.Server.SubscriberBuffer
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.Protocol.MaxString == 0 {
		c.Protocol.MaxString = d.Protocol.MaxString
	}
	if c.Protocol.MaxMutations == 0 {
		c.Protocol.MaxMutations = d.Protocol.MaxMutations
	}
	if c.Protocol.MaxPayload == 0 {
		c.Protocol.MaxPayload = d.Protocol.MaxPayload
	}

	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = d.Snapshot.Backend
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.CodeConfigInvalid).
			WithSource(c.configPath).
			WithDetail(fmt.Sprintf(format, args...))
	}

	if c.Server.Addr == "" {
		return invalid("server.addr must not be empty")
	}
	if c.Server.RootTag == "" {
		return invalid("server.rootTag must not be empty")
	}
	if c.Server.History < 1 {
		return invalid("server.history must be at least 1, got %d", c.Server.History)
	}
	if c.Server.SubscriberBuffer < 1 {
		return invalid("server.subscriberBuffer must be at least 1, got %d", c.Server.SubscriberBuffer)
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return invalid("server.shutdownTimeout: %v", err)
	}
	if c.Protocol.MaxString < 0 || c.Protocol.MaxMutations < 0 || c.Protocol.MaxPayload < 0 {
		return invalid("protocol limits must not be negative")
	}

	switch c.Snapshot.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Snapshot.Redis.Addr == "" {
			return invalid("snapshot.redis.addr is required for the redis backend")
		}
		if _, err := c.RedisTTL(); err != nil {
			return invalid("snapshot.redis.ttl: %v", err)
		}
	case BackendS3:
		if c.Snapshot.S3.Bucket == "" {
			return invalid("snapshot.s3.bucket is required for the s3 backend")
		}
		if c.Snapshot.S3.Region == "" {
			return invalid("snapshot.s3.region is required for the s3 backend")
		}
	default:
		return invalid("unknown snapshot backend %q (want memory, redis or s3)", c.Snapshot.Backend)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ShutdownTimeout parses Server.ShutdownTimeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.ShutdownTimeout)
}

// RedisTTL parses Snapshot.Redis.TTL. Empty means no expiry.
func (c *Config) RedisTTL() (time.Duration, error) {
	if c.Snapshot.Redis.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Snapshot.Redis.TTL)
}

// Limits returns the protocol decoder limits.
func (c *Config) Limits() protocol.Limits {
	return protocol.Limits{
		MaxString:    c.Protocol.MaxString,
		MaxMutations: c.Protocol.MaxMutations,
		MaxPayload:   c.Protocol.MaxPayload,
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// NewLogger builds the slog.Logger described by the Log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
