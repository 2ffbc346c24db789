package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "RAINDROP_SYNC_CONFIG"
	raindropTokenEnv = "RAINDROP_API_TOKEN"
	dedaoTokenEnv    = "DEDAO_API_TOKEN"
	zhipuKeyEnv      = "ZHIPU_API_KEY"
	outputDirEnv     = "OUTPUT_DIR"
	workspaceEnv     = "GITHUB_WORKSPACE"
	syncDaysEnv      = "SYNC_DAYS"
	scanDaysEnv      = "AI_SCAN_DAYS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Raindrop  RaindropConfig  `yaml:"raindrop"`
	Summary   SummaryConfig   `yaml:"summary"`
	Tagging   TaggingConfig   `yaml:"tagging"`
	Output    OutputConfig    `yaml:"output"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RaindropConfig describes the bookmark listing API.
type RaindropConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	Token    string `yaml:"token"`
	SyncDays int    `yaml:"syncDays"`
}

// Window converts the lookback setting into a duration.
func (r RaindropConfig) Window() time.Duration {
	return time.Duration(r.SyncDays) * 24 * time.Hour
}

// SummaryConfig defines how to contact the streaming summary API.
type SummaryConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Token        string `yaml:"token"`
	ScanDays     int    `yaml:"scanDays"`
	DelaySeconds int    `yaml:"delaySeconds"`
}

// Window converts the rescan recency setting into a duration.
func (s SummaryConfig) Window() time.Duration {
	return time.Duration(s.ScanDays) * 24 * time.Hour
}

// Delay is the fixed throttle between enrichment appends.
func (s SummaryConfig) Delay() time.Duration {
	return time.Duration(s.DelaySeconds) * time.Second
}

// TaggingConfig defines the chat-completion tag generator. An empty APIKey
// disables tagging entirely.
type TaggingConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// OutputConfig locates the notes directory and the manifest root.
type OutputConfig struct {
	Root      string `yaml:"root"`
	Workspace string `yaml:"workspace"`
}

// SchedulerConfig defines when daemon mode runs a pass.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(raindropTokenEnv); v != "" {
		c.Raindrop.Token = v
	}

	if v := os.Getenv(dedaoTokenEnv); v != "" {
		c.Summary.Token = v
	}

	if v := os.Getenv(zhipuKeyEnv); v != "" {
		c.Tagging.APIKey = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Root = v
	}

	if v := os.Getenv(workspaceEnv); v != "" {
		c.Output.Workspace = v
	}

	if v := os.Getenv(syncDaysEnv); v != "" {
		if days, err := strconv.Atoi(v); err != nil || days <= 0 {
			log.Printf("config: invalid %s=%q, keeping %d", syncDaysEnv, v, c.Raindrop.SyncDays)
		} else {
			c.Raindrop.SyncDays = days
		}
	}

	if v := os.Getenv(scanDaysEnv); v != "" {
		if days, err := strconv.Atoi(v); err != nil || days <= 0 {
			log.Printf("config: invalid %s=%q, keeping %d", scanDaysEnv, v, c.Summary.ScanDays)
		} else {
			c.Summary.ScanDays = days
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Raindrop.BaseURL != "" {
		base.Raindrop.BaseURL = override.Raindrop.BaseURL
	}
	if override.Raindrop.Token != "" {
		base.Raindrop.Token = override.Raindrop.Token
	}
	if override.Raindrop.SyncDays > 0 {
		base.Raindrop.SyncDays = override.Raindrop.SyncDays
	}

	if override.Summary.Endpoint != "" {
		base.Summary.Endpoint = override.Summary.Endpoint
	}
	if override.Summary.Token != "" {
		base.Summary.Token = override.Summary.Token
	}
	if override.Summary.ScanDays > 0 {
		base.Summary.ScanDays = override.Summary.ScanDays
	}
	if override.Summary.DelaySeconds > 0 {
		base.Summary.DelaySeconds = override.Summary.DelaySeconds
	}

	if override.Tagging.Endpoint != "" {
		base.Tagging.Endpoint = override.Tagging.Endpoint
	}
	if override.Tagging.Model != "" {
		base.Tagging.Model = override.Tagging.Model
	}
	if override.Tagging.APIKey != "" {
		base.Tagging.APIKey = override.Tagging.APIKey
	}

	if override.Output.Root != "" {
		base.Output.Root = override.Output.Root
	}
	if override.Output.Workspace != "" {
		base.Output.Workspace = override.Output.Workspace
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Raindrop: RaindropConfig{
			BaseURL:  "https://api.raindrop.io/rest/v1",
			SyncDays: 7,
		},
		Summary: SummaryConfig{
			Endpoint:     "https://get-notes.luojilab.com/voicenotes/web/notes/stream",
			ScanDays:     3,
			DelaySeconds: 2,
		},
		Tagging: TaggingConfig{
			Endpoint: "https://open.bigmodel.cn/api/paas/v4/chat/completions",
			Model:    "glm-4.7-flash",
		},
		Output: OutputConfig{
			Root:      "30_Resources",
			Workspace: ".",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *"},
	}
}
