package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AppName               = "tcheck"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tcheck.db"
	EnvPrefix             = "TCHECK"
)

const (
	DriverSQLite3  = "sqlite3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

const (
	SinkNone  = "none"
	SinkLog   = "log"
	SinkKafka = "kafka"
)

type StorageConfig struct {
	Driver        string `toml:"driver"`
	DSN           string `toml:"dsn"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

type AnalyticsConfig struct {
	Sink    string   `toml:"sink"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	Buffer  int      `toml:"buffer"`
}

type PremiumConfig struct {
	// UpgradeDelay is a Go duration string, e.g. "1500ms".
	UpgradeDelay string `toml:"upgrade_delay"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// Keymap values may list several keys separated by commas.
type Keymap struct {
	Quit      string `toml:"quit"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Add       string `toml:"add"`
	Edit      string `toml:"edit"`
	Delete    string `toml:"delete"`
	Toggle    string `toml:"toggle"`
	Priority  string `toml:"priority"`
	NewTab    string `toml:"new_tab"`
	CloseTab  string `toml:"close_tab"`
	RenameTab string `toml:"rename_tab"`
	NextTab   string `toml:"next_tab"`
	PrevTab   string `toml:"prev_tab"`
	Theme     string `toml:"theme"`
	Premium   string `toml:"premium"`
	Copy      string `toml:"copy"`
	Palette   string `toml:"palette"`
	Help      string `toml:"help"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
}

type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Premium   PremiumConfig   `toml:"premium"`
	Log       LogConfig       `toml:"log"`
	HTTP      HTTPConfig      `toml:"http"`
	Keys      Keymap          `toml:"keys"`
}

// ConfigError reports an invalid field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// DefaultPath is $XDG_CONFIG_HOME/tcheck/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// DataDir is $XDG_DATA_HOME/tcheck, falling back to ~/.local/share/tcheck.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName), nil
}

func Default() Config {
	dsn := DefaultDBName
	logPath := AppName + ".log"
	if dir, err := DataDir(); err == nil {
		dsn = filepath.Join(dir, DefaultDBName)
		logPath = filepath.Join(dir, logPath)
	}
	return Config{
		Storage: StorageConfig{
			Driver:      DriverSQLite3,
			DSN:         dsn,
			RedisAddr:   "localhost:6379",
			RedisPrefix: AppName + ":",
		},
		Analytics: AnalyticsConfig{
			Sink:    SinkLog,
			Brokers: []string{"localhost:9092"},
			Topic:   "tcheck-events",
			Buffer:  64,
		},
		Premium: PremiumConfig{UpgradeDelay: "1500ms"},
		Log: LogConfig{
			Path:  logPath,
			Level: "info",
		},
		HTTP: HTTPConfig{Addr: "127.0.0.1:8080"},
		Keys: Keymap{
			Quit:      "q,ctrl+c",
			Up:        "up,k",
			Down:      "down,j",
			Add:       "a",
			Edit:      "e",
			Delete:    "d",
			Toggle:    " ,enter",
			Priority:  "p",
			NewTab:    "t",
			CloseTab:  "w",
			RenameTab: "r",
			NextTab:   "tab,l",
			PrevTab:   "shift+tab,h",
			Theme:     "T",
			Premium:   "P",
			Copy:      "y",
			Palette:   "/",
			Help:      "?",
			Confirm:   "enter,y",
			Cancel:    "esc,n",
		},
	}
}

// Load reads the file (creating it with defaults when missing), overlays
// TCHECK_* environment variables and validates the result.
func Load(path string) (Config, error) {
	cfg, err := LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	cfg = ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Storage.Driver == "" {
		c.Storage.Driver = d.Storage.Driver
	}
	if c.Storage.DSN == "" && (c.Storage.Driver == DriverSQLite3 || c.Storage.Driver == DriverSQLite) {
		c.Storage.DSN = d.Storage.DSN
	}
	if c.Analytics.Sink == "" {
		c.Analytics.Sink = d.Analytics.Sink
	}
	if c.Analytics.Buffer <= 0 {
		c.Analytics.Buffer = d.Analytics.Buffer
	}
	if c.Premium.UpgradeDelay == "" {
		c.Premium.UpgradeDelay = d.Premium.UpgradeDelay
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
}

// ApplyEnv overlays TCHECK_<SECTION>_<KEY> variables, e.g.
// TCHECK_STORAGE_DRIVER or TCHECK_PREMIUM_UPGRADE_DELAY.
func ApplyEnv(cfg Config) Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = strings.TrimSpace(v.GetString(key))
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("storage.driver", &cfg.Storage.Driver)
	str("storage.dsn", &cfg.Storage.DSN)
	str("storage.redis_addr", &cfg.Storage.RedisAddr)
	str("storage.redis_password", &cfg.Storage.RedisPassword)
	num("storage.redis_db", &cfg.Storage.RedisDB)
	str("storage.redis_prefix", &cfg.Storage.RedisPrefix)

	str("analytics.sink", &cfg.Analytics.Sink)
	str("analytics.topic", &cfg.Analytics.Topic)
	num("analytics.buffer", &cfg.Analytics.Buffer)
	if v.IsSet("analytics.brokers") {
		cfg.Analytics.Brokers = splitList(v.GetString("analytics.brokers"))
	}

	str("premium.upgrade_delay", &cfg.Premium.UpgradeDelay)
	str("log.path", &cfg.Log.Path)
	str("log.level", &cfg.Log.Level)
	str("http.addr", &cfg.HTTP.Addr)
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite3, DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return &ConfigError{Field: "storage.dsn", Message: "dsn cannot be empty for driver " + c.Storage.Driver}
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return &ConfigError{Field: "storage.redis_addr", Message: "redis address cannot be empty"}
		}
	case DriverMemory:
	default:
		return &ConfigError{Field: "storage.driver", Message: fmt.Sprintf("unknown driver %q", c.Storage.Driver)}
	}

	switch c.Analytics.Sink {
	case SinkNone, SinkLog:
	case SinkKafka:
		if len(c.Analytics.Brokers) == 0 || c.Analytics.Topic == "" {
			return &ConfigError{Field: "analytics.brokers", Message: "kafka sink needs brokers and a topic"}
		}
	default:
		return &ConfigError{Field: "analytics.sink", Message: fmt.Sprintf("unknown sink %q", c.Analytics.Sink)}
	}
	if c.Analytics.Buffer <= 0 {
		return &ConfigError{Field: "analytics.buffer", Message: "buffer must be positive"}
	}

	if _, err := c.UpgradeDelay(); err != nil {
		return &ConfigError{Field: "premium.upgrade_delay", Message: err.Error()}
	}
	return nil
}

func (c Config) UpgradeDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Premium.UpgradeDelay)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("delay cannot be negative")
	}
	return d, nil
}

// SplitKeys turns a keymap entry into key names. A lone space is the
// space bar, so entries are split on commas without trimming spaces away.
func SplitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == " " {
			out = append(out, p)
			continue
		}
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
