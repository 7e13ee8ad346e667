package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Band struct {
		Pct       *float64 `yaml:"pct"`
		Increment *float64 `yaml:"increment"`
		Simulate  bool     `yaml:"simulate"`
	} `yaml:"band"`
	Chain struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"chain"`
	History struct {
		Provider            string `yaml:"provider"`
		SymbolSuffix        string `yaml:"symbol_suffix"`
		DefaultLookbackDays int    `yaml:"default_lookback_days"`
	} `yaml:"history"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"alpaca"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string   `yaml:"digest_cron"`
		Watch      []string `yaml:"watch"`
	} `yaml:"schedule"`
	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
	Mock  bool   `yaml:"mock"`
}

// Load reads .env, then the YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STRIKEBAND_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SYMBOLS_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("BAND_PCT"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("BAND_PCT: %w", err)
		}
		cfg.Band.Pct = &pct
	}
	if v := os.Getenv("BAND_INCREMENT"); v != "" {
		inc, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("BAND_INCREMENT: %w", err)
		}
		cfg.Band.Increment = &inc
	}
	if v := os.Getenv("BAND_SIMULATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("BAND_SIMULATE: %w", err)
		}
		cfg.Band.Simulate = b
	}
	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		cfg.Chain.BaseURL = v
	}
	if v := os.Getenv("HISTORY_PROVIDER"); v != "" {
		cfg.History.Provider = v
	}
	if v, ok := os.LookupEnv("HISTORY_SYMBOL_SUFFIX"); ok {
		cfg.History.SymbolSuffix = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("USE_MOCK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("USE_MOCK: %w", err)
		}
		cfg.Mock = b
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8501"
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "symbols.json"
	}
	if cfg.Band.Pct == nil {
		pct := 10.0
		cfg.Band.Pct = &pct
	}
	if cfg.Band.Increment == nil {
		inc := 50.0
		cfg.Band.Increment = &inc
	}
	if cfg.Chain.BaseURL == "" {
		cfg.Chain.BaseURL = "https://www.nseindia.com"
	}
	cfg.History.Provider = strings.ToLower(cfg.History.Provider)
	if cfg.History.Provider == "" {
		cfg.History.Provider = "yahoo"
	}
	if _, ok := os.LookupEnv("HISTORY_SYMBOL_SUFFIX"); !ok && cfg.History.SymbolSuffix == "" && cfg.History.Provider == "yahoo" {
		cfg.History.SymbolSuffix = ".NS"
	}
	if cfg.History.DefaultLookbackDays == 0 {
		cfg.History.DefaultLookbackDays = 30
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "logs/strikeband.log"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if *c.Band.Pct < 0 {
		return fmt.Errorf("band.pct must be >= 0")
	}
	if *c.Band.Increment <= 0 {
		return fmt.Errorf("band.increment must be positive")
	}
	if c.History.DefaultLookbackDays < 0 {
		return fmt.Errorf("history.default_lookback_days must not be negative")
	}
	switch c.History.Provider {
	case "yahoo":
	case "alpaca":
		if c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "" {
			return fmt.Errorf("alpaca.api_key and alpaca.api_secret are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("history.provider %q is not supported", c.History.Provider)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Schedule.DigestCron != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("schedule.digest_cron requires telegram.bot_token")
	}
	return nil
}
