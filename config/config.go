package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// ComboConfig holds the combo tracker tuning.
type ComboConfig struct {
	WindowMS       int     `json:"window_ms" env:"COMBO_WINDOW_MS"`
	Max            int     `json:"max" env:"COMBO_MAX"`
	BonusThreshold int     `json:"bonus_threshold" env:"COMBO_BONUS_THRESHOLD"` // combo at which the transient multiplier kicks in
	BonusStep      float64 `json:"bonus_step" env:"COMBO_BONUS_STEP"`           // multiplier added per combo step once past the threshold
}

// Window returns the combo window as a duration.
func (c ComboConfig) Window() time.Duration {
	return time.Duration(c.WindowMS) * time.Millisecond
}

// PrestigeConfig holds the prestige thresholds.
// MinClicks is the engine's own guard; the Display* values only decide whether a client should offer the action.
type PrestigeConfig struct {
	MinClicks     int64   `json:"min_clicks" env:"PRESTIGE_MIN_CLICKS"`
	DisplayClicks int64   `json:"display_clicks" env:"PRESTIGE_DISPLAY_CLICKS"`
	DisplayPoints float64 `json:"display_points" env:"PRESTIGE_DISPLAY_POINTS"`
}

// EventsConfig holds the random event roll parameters.
type EventsConfig struct {
	RollIntervalMS int     `json:"roll_interval_ms" env:"EVENT_ROLL_INTERVAL_MS"`
	Chance         float64 `json:"chance" env:"EVENT_CHANCE"` // 0-1, probability of offering an event per roll
	MinClicks      int64   `json:"min_clicks" env:"EVENT_MIN_CLICKS"`
}

// RollInterval returns the event roll interval as a duration.
func (e EventsConfig) RollInterval() time.Duration {
	return time.Duration(e.RollIntervalMS) * time.Millisecond
}

// Config holds all configurable server and economy parameters.
type Config struct {
	TickIntervalMS int    `json:"tick_interval_ms" env:"TICK_INTERVAL_MS"`
	MaxSaveBytes   int    `json:"max_save_bytes" env:"MAX_SAVE_BYTES"`
	WSPort         int    `json:"ws_port" env:"WS_PORT"`
	DatabaseURL    string `json:"database_url" env:"DATABASE_URL"`
	AuthBaseURL    string `json:"auth_base_url" env:"AUTH_BASE_URL"`
	LogLevel       string `json:"log_level" env:"LOG_LEVEL"`

	Combo    ComboConfig    `json:"combo"`
	Prestige PrestigeConfig `json:"prestige"`
	Events   EventsConfig   `json:"events"`
}

// TickInterval returns the auto-increment period as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Defaults returns a Config with the stock game balance.
func Defaults() *Config {
	return &Config{
		TickIntervalMS: 1000,
		MaxSaveBytes:   1 << 20,
		WSPort:         8080,
		LogLevel:       "info",
		Combo: ComboConfig{
			WindowMS:       2000,
			Max:            50,
			BonusThreshold: 5,
			BonusStep:      0.1,
		},
		Prestige: PrestigeConfig{
			MinClicks:     500,
			DisplayClicks: 1000,
			DisplayPoints: 10000,
		},
		Events: EventsConfig{
			RollIntervalMS: 10000,
			Chance:         0.1,
			MinClicks:      100,
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit path for the JSON layer.
func LoadFile(path string) *Config {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
	}

	// Variables that fail to parse leave the field at its previous value.
	if err := env.Parse(cfg); err != nil {
		slog.Warn("invalid environment override", "tag", "config", "err", err)
	}

	return cfg
}
