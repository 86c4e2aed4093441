package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// EndpointsConfig holds the backend paths, relative to APIConfig.BaseURL
type EndpointsConfig struct {
	Models     string `toml:"models"`
	Chat       string `toml:"chat"`
	RAGProcess string `toml:"rag_process"`
	RAGQuery   string `toml:"rag_query"`
	Login      string `toml:"login"`
	Register   string `toml:"register"`
	Me         string `toml:"me"`
}

type APIConfig struct {
	BaseURL        string          `toml:"base_url"`
	TimeoutSeconds int             `toml:"timeout_seconds"`
	Endpoints      EndpointsConfig `toml:"endpoints"`
}

type ChatConfig struct {
	DefaultModel        string         `toml:"default_model"`
	DefaultSystemPrompt string         `toml:"default_system_prompt,omitempty"`
	Options             map[string]any `toml:"options,omitempty"`
}

type SecurityConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	API      APIConfig      `toml:"api"`
	Chat     ChatConfig     `toml:"chat"`
	Security SecurityConfig `toml:"security"`
}

type Config struct {
	DataDirectory       string
	APIBaseURL          string
	Timeout             time.Duration
	Endpoints           EndpointsConfig
	DefaultModel        string
	DefaultSystemPrompt string
	ChatOptions         map[string]any
	Security            SecurityConfig
}

var Debug = false

// Log is a no-op logger until InitDebugLog enables it
var Log = zerolog.Nop()

func (c *Config) APIURL() string {
	return c.APIBaseURL
}

func (c *Config) Model() string {
	return c.DefaultModel
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	defaults := DefaultUserConfig()

	c.APIBaseURL = userCfg.API.BaseURL
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaults.API.BaseURL
	}
	c.Timeout = time.Duration(userCfg.API.TimeoutSeconds) * time.Second
	if userCfg.API.TimeoutSeconds <= 0 {
		c.Timeout = time.Duration(defaults.API.TimeoutSeconds) * time.Second
	}
	c.Endpoints = userCfg.API.Endpoints.WithDefaults(defaults.API.Endpoints)
	c.DefaultModel = userCfg.Chat.DefaultModel
	c.DefaultSystemPrompt = userCfg.Chat.DefaultSystemPrompt
	c.ChatOptions = userCfg.Chat.Options
	c.Security = userCfg.Security
	if c.Security.Method == "" {
		c.Security.Method = SecurityNone
	}
}

// WithDefaults fills empty paths from d
func (e EndpointsConfig) WithDefaults(d EndpointsConfig) EndpointsConfig {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return EndpointsConfig{
		Models:     pick(e.Models, d.Models),
		Chat:       pick(e.Chat, d.Chat),
		RAGProcess: pick(e.RAGProcess, d.RAGProcess),
		RAGQuery:   pick(e.RAGQuery, d.RAGQuery),
		Login:      pick(e.Login, d.Login),
		Register:   pick(e.Register, d.Register),
		Me:         pick(e.Me, d.Me),
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CHATDESK_API_URL"); url != "" {
		c.APIBaseURL = url
	}
	if model := os.Getenv("CHATDESK_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if dataDir := os.Getenv("CHATDESK_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("CHATDESK_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog points Log at <dataDir>/debug.log when CHATDESK_DEBUG is set
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - requests and payloads end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	SetLogOutput(f)
	Log.Info().Str("path", logPath).Msgf("=== Debug logging started (CHATDESK_DEBUG=%s) ===", os.Getenv("CHATDESK_DEBUG"))
}

// SetLogOutput enables debug logging to w
func SetLogOutput(w io.Writer) {
	Debug = true
	Log = zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Caller().
		Str("app", "chatdesk").
		Logger()
}

func HasAnyEnvVar() bool {
	return os.Getenv("CHATDESK_API_URL") != "" ||
		os.Getenv("CHATDESK_MODEL") != "" ||
		os.Getenv("CHATDESK_DATA_DIR") != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: GetDefaultDataDir(),
	}

	// CHATDESK_DATA_DIR decides which user config is read
	if dataDir := os.Getenv("CHATDESK_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	return cfg, nil
}
