package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/storage"
)

// Config is the resolved configuration for hourglass. Defaults come from
// ~/.hourglass/config.json, which supports single-line // comments.
// Values saved by "hourglass login" and "hourglass profile" and environment
// variables are layered on top.
type Config struct {
	// APIKey is the Clockify personal API key.
	APIKey string `json:"api_key"`
	// WorkspaceID selects the workspace. Empty means the user's default.
	WorkspaceID string `json:"workspace_id"`
	// Timezone is the IANA zone used to bucket entries into days. Empty = local.
	Timezone string `json:"timezone"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// Listen is the address of the dashboard API.
	Listen string `json:"listen"`
	// Billing enables earnings in stats when the hourly rate is set.
	Billing model.BillingProfile `json:"billing"`
}

// Environment variables that override file and saved values.
const (
	EnvAPIKey    = "HOURGLASS_API_KEY"
	EnvWorkspace = "HOURGLASS_WORKSPACE"
	EnvTimezone  = "HOURGLASS_TZ"
	EnvLogLevel  = "HOURGLASS_LOG_LEVEL"
	EnvListen    = "HOURGLASS_LISTEN"
	EnvRate      = "HOURGLASS_HOURLY_RATE"
)

const (
	// DefaultListen binds the dashboard API to loopback only.
	DefaultListen   = "127.0.0.1:8765"
	DefaultLogLevel = "info"
)

func defaultConfig() Config {
	return Config{
		Listen:   DefaultListen,
		LogLevel: DefaultLogLevel,
	}
}

// Location resolves Timezone, falling back to time.Local when empty.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// hourglass configuration - ~/.hourglass/config.json
//
// All settings are optional. The API key is best set with "hourglass login"
// or the HOURGLASS_API_KEY environment variable rather than stored here.
{
  // IANA timezone used to group entries into days, e.g. "America/Santo_Domingo".
  // Leave empty to use the system timezone. Override with HOURGLASS_TZ.
  "timezone": "",

  // Log verbosity: debug, info, warn or error. Override with HOURGLASS_LOG_LEVEL.
  "log_level": "info",

  // Address of the local dashboard API started by "hourglass serve".
  "listen": "127.0.0.1:8765",

  // Billing profile. Earnings are shown when hourly_rate is non-zero;
  // the DOP conversion additionally needs usd_to_dop_rate. Values saved with
  // "hourglass profile set" take precedence over these.
  "billing": {
    "name": "",
    "hourly_rate": 0,
    "usd_to_dop_rate": 0
  }
}
`

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// readFile reads the commented config at path, creating it with annotated
// defaults on first run.
func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := storage.WriteFileAtomic(path, []byte(configTemplate), 0o600); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}

// ApplyEnv overlays environment values reported by lookup onto cfg.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAPIKey, &cfg.APIKey)
	str(EnvWorkspace, &cfg.WorkspaceID)
	str(EnvTimezone, &cfg.Timezone)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvListen, &cfg.Listen)

	if v, ok := lookup(EnvRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvRate, v, err)
		}
		cfg.Billing.HourlyRate = rate
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Dir returns the config directory (~/.hourglass).
func Dir() (string, error) {
	return storage.BaseDir()
}

// Load resolves the configuration from the default store, .env in the
// working directory and the environment.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return defaultConfig(), err
	}
	if err := LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg, err := NewFileStore(dir).Load()
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// filePath returns the path of the commented config file inside dir.
func filePath(dir string) string {
	return filepath.Join(dir, "config.json")
}
