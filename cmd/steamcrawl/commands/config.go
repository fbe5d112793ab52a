package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/lib/configutil"
	"steamcrawl/lib/configutil/configlibsql"
	"time"
)

const apiKeyEnv = "STEAM_API_KEY"

type Config struct {
	DataDir string `json:"data_dir"`
	AppList string `json:"app_list"`
	// Period pins the run period (YYYY-MM), empty means the current month.
	Period string `json:"period"`
	// Timezone decides which month is current, empty means the local zone.
	Timezone          string   `json:"timezone"`
	PauseSeconds      *float64 `json:"pause_seconds"`
	TimeoutSeconds    float64  `json:"timeout_seconds"`
	RequestsPerSecond float64  `json:"requests_per_second"`
	APIKey            string   `json:"api_key"`
	StoreBaseURL      string   `json:"store_base_url"`
	APIBaseURL        string   `json:"api_base_url"`
	ChartsBaseURL     string   `json:"charts_base_url"`
	Country           string   `json:"country"`
	Language          string   `json:"language"`
	// Schedule is the cron spec used by the schedule command.
	Schedule string `json:"schedule"`
	// DumpHTTPDir receives every HTTP exchange when set.
	DumpHTTPDir string              `json:"dump_http_dir"`
	Export      configlibsql.Struct `json:"export"`
}

// LoadConfig reads the config file at path and its .local override. A
// missing file leaves every option at its default.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", path)
		err = nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if key, ok := os.LookupEnv(apiKeyEnv); ok && key != "" {
		cfg.APIKey = key
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.AppList == "" {
		c.AppList = "steam_game_list.csv"
	}
	if c.PauseSeconds == nil {
		pause := 1.5
		c.PauseSeconds = &pause
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.Country == "" {
		c.Country = "us"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Schedule == "" {
		c.Schedule = "0 3 1 * *"
	}
	if c.Export.File == "" && c.Export.Url == "" {
		c.Export.File = "steam.db"
	}
}

func (c Config) validate() error {
	if c.PauseSeconds != nil && *c.PauseSeconds < 0 {
		return fmt.Errorf("pause_seconds must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if c.Period != "" {
		_, err := time.Parse(chrono.PeriodLayout, c.Period)
		if err != nil {
			return fmt.Errorf("period %q is not formatted YYYY-MM", c.Period)
		}
	}
	return nil
}

func (c Config) Pause() time.Duration {
	if c.PauseSeconds == nil {
		return 0
	}
	return time.Duration(*c.PauseSeconds * float64(time.Second))
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// CurrentPeriod is the pinned period, or the month clock is in.
func (c Config) CurrentPeriod(clock chrono.API) string {
	if c.Period != "" {
		return c.Period
	}
	return chrono.Period(clock.Now())
}
