package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StakeBanner/internal/calculator"
)

const sampleYAML = `
indexer:
  base_url: https://idx.example.org/
  contract_id: 42
campaign:
  week1_start: "2024-04-01T00:00:00Z"
  week2_start: "2024-04-08"
display:
  unit_symbol: TST
database:
  dsn: /tmp/stakes.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://idx.example.org", cfg.Indexer.BaseURL)
	assert.Equal(t, uint64(42), cfg.Indexer.ContractID)
	assert.Equal(t, 30*time.Second, cfg.Indexer.Timeout)
	assert.Equal(t, 7, cfg.Campaign.BucketDays)
	assert.Equal(t, 18.0, cfg.Campaign.ReferencePeriod)
	assert.Equal(t, "TST", cfg.Display.UnitSymbol)
	require.NotNil(t, cfg.Display.UnitDecimals)
	assert.Equal(t, int32(6), *cfg.Display.UnitDecimals)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.Warnings())

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, calculator.ModeStrict, mode)

	w, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, 7*24*time.Hour, w.Width)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("STAKING_CONTRACT_ID", "7")
	t.Setenv("WEEK1_START", "2024-05-01")
	t.Setenv("CLASSIFICATION", "legacy")
	t.Setenv("API_PORT", "9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(7), cfg.Indexer.ContractID)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "https://mainnet-idx.nautilus.sh", cfg.Indexer.BaseURL)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "legacy")
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("STAKING_CONTRACT_ID", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing contract", func(c *Config) { c.Indexer.ContractID = 0 }},
		{"missing week1", func(c *Config) { c.Campaign.Week1Start = "" }},
		{"bad week1", func(c *Config) { c.Campaign.Week1Start = "April 1st" }},
		{"week2 before week1", func(c *Config) { c.Campaign.Week2Start = "2024-03-25" }},
		{"tiny reference", func(c *Config) { c.Campaign.ReferencePeriod = 1e-200 }},
		{"negative decimals", func(c *Config) { d := int32(-1); c.Display.UnitDecimals = &d }},
		{"bad mode", func(c *Config) { c.Campaign.Classification = "loose" }},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"email without recipients", func(c *Config) { c.Email.SMTPHost = "smtp.example.org" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, sampleYAML))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWarnings_Week2Mismatch(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	cfg.Campaign.Week2Start = "2024-04-09"

	require.NoError(t, cfg.Validate())
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "week2_start")
}

func TestLoad_ZeroUnitDecimalsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, strings.Replace(sampleYAML, "  unit_symbol: TST\n", "  unit_symbol: TST\n  unit_decimals: 0\n", 1)))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.Display.UnitDecimals)
	assert.Equal(t, int32(0), *cfg.Display.UnitDecimals)
	assert.Equal(t, "TST", cfg.Display.UnitSymbol)
}
