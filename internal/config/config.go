package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StakeBanner/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Indexer struct {
		BaseURL    string        `yaml:"base_url"`
		ContractID uint64        `yaml:"contract_id"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"indexer"`
	Campaign struct {
		Week1Start      string  `yaml:"week1_start"`
		Week2Start      string  `yaml:"week2_start"`
		BucketDays      int     `yaml:"bucket_days"`
		ReferencePeriod float64 `yaml:"reference_period"`
		Classification  string  `yaml:"classification"`
	} `yaml:"campaign"`
	Display struct {
		UnitSymbol   string `yaml:"unit_symbol"`
		UnitDecimals *int32 `yaml:"unit_decimals"` // nil until defaults apply; 0 is valid
	} `yaml:"display"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		ReportCron  string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		APIBase  string `yaml:"api_base"`
	} `yaml:"telegram"`
	Email struct {
		SMTPHost string   `yaml:"smtp_host"`
		SMTPPort int      `yaml:"smtp_port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"email"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	API struct {
		Bind string `yaml:"bind"`
		Port int    `yaml:"port"`
	} `yaml:"api"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; everything can come from the environment.
func Load(path string) (*Config, error) {
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("INDEXER_BASE_URL"); v != "" {
		c.Indexer.BaseURL = v
	}
	if v := os.Getenv("STAKING_CONTRACT_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STAKING_CONTRACT_ID: %w", err)
		}
		c.Indexer.ContractID = id
	}
	if v := os.Getenv("WEEK1_START"); v != "" {
		c.Campaign.Week1Start = v
	}
	if v := os.Getenv("WEEK2_START"); v != "" {
		c.Campaign.Week2Start = v
	}
	if v := os.Getenv("CLASSIFICATION"); v != "" {
		c.Campaign.Classification = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT: %w", err)
		}
		c.API.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Indexer.BaseURL == "" {
		c.Indexer.BaseURL = "https://mainnet-idx.nautilus.sh"
	}
	c.Indexer.BaseURL = strings.TrimRight(c.Indexer.BaseURL, "/")
	if c.Indexer.Timeout == 0 {
		c.Indexer.Timeout = 30 * time.Second
	}
	if c.Campaign.BucketDays == 0 {
		c.Campaign.BucketDays = 7
	}
	if c.Campaign.ReferencePeriod == 0 {
		c.Campaign.ReferencePeriod = 18
	}
	if c.Campaign.Classification == "" {
		c.Campaign.Classification = string(calculator.ModeStrict)
	}
	if c.Display.UnitSymbol == "" {
		c.Display.UnitSymbol = "VOI"
	}
	if c.Display.UnitDecimals == nil {
		d := int32(6)
		c.Display.UnitDecimals = &d
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */10 * * * *"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 9 * * 1"
	}
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.API.Bind == "" {
		c.API.Bind = "127.0.0.1"
	}
	if c.API.Port == 0 {
		c.API.Port = 8480
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Indexer.ContractID == 0 {
		return fmt.Errorf("indexer.contract_id is required")
	}
	week1, err := c.Week1()
	if err != nil {
		return err
	}
	if c.Campaign.Week2Start != "" {
		week2, err := parseInstant(c.Campaign.Week2Start)
		if err != nil {
			return fmt.Errorf("campaign.week2_start: %w", err)
		}
		if !week2.After(week1) {
			return fmt.Errorf("campaign.week2_start must be after week1_start")
		}
	}
	if c.Campaign.BucketDays <= 0 {
		return fmt.Errorf("campaign.bucket_days must be positive")
	}
	if c.Campaign.ReferencePeriod < 1 {
		return fmt.Errorf("campaign.reference_period must be at least 1, got %g", c.Campaign.ReferencePeriod)
	}
	if c.Display.UnitDecimals != nil && *c.Display.UnitDecimals < 0 {
		return fmt.Errorf("display.unit_decimals must not be negative")
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("campaign.classification: %w", err)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Email.SMTPHost != "" && (c.Email.From == "" || len(c.Email.To) == 0) {
		return fmt.Errorf("email.from and email.to are required when email.smtp_host is set")
	}
	return nil
}

// Warnings lists settings that are valid but probably unintended.
func (c *Config) Warnings() []string {
	var out []string
	week1, err1 := c.Week1()
	week2, err2 := parseInstant(c.Campaign.Week2Start)
	if err1 == nil && err2 == nil && !week2.Equal(week1.Add(c.BucketWidth())) {
		out = append(out, fmt.Sprintf("campaign.week2_start %s is not one bucket (%d days) after week1_start %s",
			week2.Format(time.RFC3339), c.Campaign.BucketDays, week1.Format(time.RFC3339)))
	}
	if mode, _ := c.Mode(); mode == calculator.ModeLegacy {
		out = append(out, "campaign.classification=legacy: week 4 stays empty and later deadlines are counted in week 3")
	}
	return out
}

// Week1 returns the parsed start of the first weekly cohort.
func (c *Config) Week1() (time.Time, error) {
	if c.Campaign.Week1Start == "" {
		return time.Time{}, fmt.Errorf("campaign.week1_start is required")
	}
	t, err := parseInstant(c.Campaign.Week1Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("campaign.week1_start: %w", err)
	}
	return t, nil
}

// BucketWidth returns the span of one cohort.
func (c *Config) BucketWidth() time.Duration {
	return time.Duration(c.Campaign.BucketDays) * 24 * time.Hour
}

// Mode returns the configured classification mode.
func (c *Config) Mode() (calculator.Mode, error) {
	return calculator.ParseMode(c.Campaign.Classification)
}

// Window builds the cohort window described by the campaign section.
func (c *Config) Window() (calculator.Window, error) {
	start, err := c.Week1()
	if err != nil {
		return calculator.Window{}, err
	}
	return calculator.NewWindow(start, c.BucketWidth())
}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
