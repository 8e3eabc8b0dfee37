// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML values like "30s" decode directly.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Media         MediaConfig         `toml:"media"`
	Catchup       CatchupConfig       `toml:"catchup"`
	Session       *SessionConfig      `toml:"session"`
	Notifications NotificationsConfig `toml:"notifications"`
	Maintenance   MaintenanceConfig   `toml:"maintenance"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type MediaConfig struct {
	FFprobePath     string `toml:"ffprobe_path"`
	FingerprintTool string `toml:"fingerprint_tool"`
	IntroDetectTool string `toml:"intro_detect_tool"`
	SidecarDir      string `toml:"sidecar_dir"`
}

// CatchupConfig controls the event-driven enrichment pipeline.
type CatchupConfig struct {
	Enabled             bool     `toml:"enabled"`
	Tasks               []string `toml:"tasks"`
	FingerprintUnlocked bool     `toml:"fingerprint_unlocked"`
	ExclusiveExtract    bool     `toml:"exclusive_extract"`
	PersistMediaInfo    bool     `toml:"persist_media_info"`
	EnhancePeople       bool     `toml:"enhance_people"`

	// Library names eligible per task; empty means all libraries.
	FingerprintLibraries []string `toml:"fingerprint_libraries"`
	IntroSkipLibraries   []string `toml:"introskip_libraries"`

	Queues QueuesConfig `toml:"queues"`
}

type QueuesConfig struct {
	MediaInfo   QueueConfig `toml:"mediainfo"`
	Fingerprint QueueConfig `toml:"fingerprint"`
	IntroSkip   QueueConfig `toml:"introskip"`
}

type QueueConfig struct {
	Workers      int      `toml:"workers"`
	Capacity     int      `toml:"capacity"`
	MaxAttempts  int      `toml:"max_attempts"`
	RetryBackoff Duration `toml:"retry_backoff"`
}

// SessionConfig points at the playback-session monitor endpoint.
type SessionConfig struct {
	URL           string   `toml:"url"`
	Token         string   `toml:"token"`
	PollInterval  Duration `toml:"poll_interval"`
	MinConfidence float64  `toml:"min_confidence"`
}

type NotificationsConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

type MaintenanceConfig struct {
	EventRetentionDays int    `toml:"event_retention_days"`
	PruneSchedule      string `toml:"prune_schedule"`
	SweepSchedule      string `toml:"sweep_schedule"`
}

// Load reads the configuration file, substitutes environment variables, and
// validates the result. Unresolved variables and validation failures are
// aggregated into a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return cfg, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the config file, skipping
// validation and ignoring unresolved environment variables. Used by tooling
// that inspects partial configs.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/mediarr.db"
	}
	if c.Media.FFprobePath == "" {
		c.Media.FFprobePath = "ffprobe"
	}
	if c.Media.FingerprintTool == "" {
		c.Media.FingerprintTool = "fpcalc"
	}
	if c.Media.IntroDetectTool == "" {
		c.Media.IntroDetectTool = "intro-detect"
	}
	if c.Media.SidecarDir == "" {
		c.Media.SidecarDir = "./data/mediainfo"
	}
	if len(c.Catchup.Tasks) == 0 {
		c.Catchup.Tasks = []string{"mediainfo", "fingerprint", "introskip"}
	}

	applyQueueDefaults(&c.Catchup.Queues.MediaInfo, 4)
	applyQueueDefaults(&c.Catchup.Queues.Fingerprint, 1)
	applyQueueDefaults(&c.Catchup.Queues.IntroSkip, 2)

	if c.Session != nil && c.Session.PollInterval == 0 {
		c.Session.PollInterval = Duration(15 * time.Second)
	}
	if c.Session != nil && c.Session.MinConfidence == 0 {
		c.Session.MinConfidence = 0.85
	}
	if c.Maintenance.EventRetentionDays == 0 {
		c.Maintenance.EventRetentionDays = 30
	}
	if c.Maintenance.PruneSchedule == "" {
		c.Maintenance.PruneSchedule = "0 3 * * *"
	}
	if c.Maintenance.SweepSchedule == "" {
		c.Maintenance.SweepSchedule = "30 3 * * 0"
	}
}

func applyQueueDefaults(q *QueueConfig, workers int) {
	if q.Workers == 0 {
		q.Workers = workers
	}
	if q.MaxAttempts == 0 {
		q.MaxAttempts = 3
	}
	if q.RetryBackoff == 0 {
		q.RetryBackoff = Duration(5 * time.Second)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR} references with environment values.
// ${VAR:-default} falls back to the default when the variable is unset or
// empty; ${VAR:?message} records the message as a missing-variable error.
// Unresolvable references are left in place and reported in the returned
// slice.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]struct{})
	report := func(entry string) {
		if _, ok := seen[entry]; ok {
			return
		}
		seen[entry] = struct{}{}
		missing = append(missing, entry)
	}

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }
		name, op, hasOp := strings.Cut(expr, ":")

		if !hasOp {
			if value, ok := os.LookupEnv(name); ok {
				return value
			}
			report(name)
			return match
		}

		// Empty counts as unset for the :- and :? operators.
		if value := os.Getenv(name); value != "" {
			return value
		}
		switch {
		case strings.HasPrefix(op, "-"):
			return op[1:]
		case strings.HasPrefix(op, "?"):
			if msg := strings.TrimSpace(op[1:]); msg != "" {
				report(name + ": " + msg)
			} else {
				report(name)
			}
			return match
		default:
			report(name)
			return match
		}
	})
	return out, missing
}
