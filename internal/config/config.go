package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/vtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.json"

	// AddrEnv overrides Serve.Addr when set.
	AddrEnv = "VTREE_ADDR"

	// DefaultAddr is the default mirror server address.
	DefaultAddr = "localhost:7070"

	// DefaultRootTag is the tag of the element the mirror renders into.
	DefaultRootTag = "main"

	// DefaultWriteTimeout bounds a single websocket write.
	DefaultWriteTimeout = "10s"

	// DefaultBuffer is the per-client mutation queue length.
	DefaultBuffer = 256

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "vtree"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Log controls the CLI and server logger.
	Log LogConfig `json:"log"`

	// Serve contains mirror server configuration.
	Serve ServeConfig `json:"serve"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Trace contains OpenTelemetry configuration.
	Trace TraceConfig `json:"trace"`

	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// ServeConfig contains mirror server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// RootTag is the tag of the container element trees render into.
	RootTag string `json:"rootTag,omitempty"`

	// WriteTimeout bounds a websocket write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// Buffer is the number of mutations queued per client before it is
	// dropped as too slow.
	Buffer int `json:"buffer,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records render metrics.
	Enabled bool `json:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// TraceConfig contains tracing settings.
type TraceConfig struct {
	// TracerName is the OpenTelemetry tracer name for HTTP spans.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Serve: ServeConfig{
			Addr:         DefaultAddr,
			RootTag:      DefaultRootTag,
			WriteTimeout: DefaultWriteTimeout,
			Buffer:       DefaultBuffer,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Trace: TraceConfig{
			TracerName: "vtree",
		},
	}
}

// Load reads vtree.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	if !Exists(dir) {
		cfg := New()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithPath(path).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.RootTag == "" {
		c.Serve.RootTag = DefaultRootTag
	}
	if c.Serve.WriteTimeout == "" {
		c.Serve.WriteTimeout = DefaultWriteTimeout
	}
	if c.Serve.Buffer == 0 {
		c.Serve.Buffer = DefaultBuffer
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Trace.TracerName == "" {
		c.Trace.TracerName = "vtree"
	}
}

func (c *Config) applyEnv() {
	if addr := os.Getenv(AddrEnv); addr != "" {
		c.Serve.Addr = addr
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return errors.New(errors.CodeInvalidConfig).
			WithPath("log.level").
			WithDetail("Unknown log level " + c.Log.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeInvalidConfig).
			WithPath("log.format").
			WithDetail("Unknown log format " + c.Log.Format).
			WithSuggestion(`Use "text" or "json"`)
	}
	if _, err := c.WriteTimeout(); err != nil {
		return errors.New(errors.CodeInvalidConfig).
			WithPath("serve.writeTimeout").
			WithDetail(err.Error())
	}
	if c.Serve.Buffer < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithPath("serve.buffer").
			WithDetail("Buffer must not be negative")
	}
	if strings.TrimSpace(c.Serve.RootTag) == "" || strings.ContainsAny(c.Serve.RootTag, " <>/") {
		return errors.New(errors.CodeInvalidConfig).
			WithPath("serve.rootTag").
			WithDetail("Invalid tag name " + c.Serve.RootTag)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// WriteTimeout parses Serve.WriteTimeout. Zero disables the deadline.
func (c *Config) WriteTimeout() (time.Duration, error) {
	if c.Serve.WriteTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Serve.WriteTimeout)
}
