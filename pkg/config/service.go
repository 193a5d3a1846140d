package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/smartcity_solar/pkg/pathing"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

var (
	ActiveSimulatorConfig *SimulatorConfig
	ActiveDashboardConfig *DashboardConfig
)

// Allowed panel capacity range in kWp.
const (
	MinPanelCapacityKWp = 1.0
	MaxPanelCapacityKWp = 10.0
)

func DefaultSimulatorConfig() *SimulatorConfig {
	return &SimulatorConfig{
		HouseCount:             10,
		PanelCapacityKWp:       3.5,
		Efficiency:             0.8,
		DaylightStartHour:      6,
		DaylightEndHour:        18,
		RefreshIntervalSeconds: 5,
		ListenAddress:          "0.0.0.0",
		ListenPort:             9040,
		ReportLinesPerPage:     40,
		Agent: AgentConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-3.5-turbo",
			TimeoutSeconds: 60,
		},
		Publish: PublishConfig{
			MQTTClientID: "smartcity-solar",
			MQTTTopic:    "smartcity/{house_id}/reading",
			KafkaTopic:   "smartcity.readings",
		},
	}
}

func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		SimulatorAPIHost: "localhost:9040",
		TLSEnabled:       false,
		ChartWidth:       100,
		ChartHeight:      12,
		HistoryLength:    120,
	}
}

func LoadSimulatorConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "simulator.toml")
	cfg, err := loadOrCreate(configPath, DefaultSimulatorConfig())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ActiveSimulatorConfig = cfg
	return nil
}

func LoadDashboardConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "dashboard.toml")
	cfg, err := loadOrCreate(configPath, DefaultDashboardConfig())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ActiveDashboardConfig = cfg
	return nil
}

// Validate rejects settings the simulator cannot run with.
// All problems are reported at once, each wrapping ErrInvalidConfiguration.
func (c *SimulatorConfig) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...))
	}

	if c.PanelCapacityKWp < MinPanelCapacityKWp || c.PanelCapacityKWp > MaxPanelCapacityKWp {
		invalid("panel_capacity_kwp %.2f outside [%.1f, %.1f]", c.PanelCapacityKWp, MinPanelCapacityKWp, MaxPanelCapacityKWp)
	}
	if c.Efficiency <= 0 || c.Efficiency > 1 {
		invalid("efficiency %.2f outside (0, 1]", c.Efficiency)
	}
	if c.HouseCount < 1 {
		invalid("house_count must be at least 1, got %d", c.HouseCount)
	}
	if c.DaylightStartHour < 0 || c.DaylightEndHour > 23 || c.DaylightStartHour >= c.DaylightEndHour {
		invalid("daylight window %d-%d is not a valid range of hours", c.DaylightStartHour, c.DaylightEndHour)
	}
	if c.RefreshIntervalSeconds < 1 {
		invalid("refresh_interval_seconds must be at least 1, got %d", c.RefreshIntervalSeconds)
	}
	if c.ReportLinesPerPage < 1 {
		invalid("report_lines_per_page must be at least 1, got %d", c.ReportLinesPerPage)
	}
	return errors.Join(errs...)
}

func (c *DashboardConfig) Validate() error {
	var errs []error
	if c.SimulatorAPIHost == "" {
		errs = append(errs, fmt.Errorf("%w: simulator_api_host is empty", ErrInvalidConfiguration))
	}
	if c.HistoryLength < 1 {
		errs = append(errs, fmt.Errorf("%w: history_length must be at least 1, got %d", ErrInvalidConfiguration, c.HistoryLength))
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		errs = append(errs, fmt.Errorf("%w: chart size %dx%d must not be negative", ErrInvalidConfiguration, c.ChartWidth, c.ChartHeight))
	}
	return errors.Join(errs...)
}

func (c *SimulatorConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// loadOrCreate decodes the TOML file at path.
// When the file is missing it is written with defaults and defaults is returned.
func loadOrCreate[T any](path string, defaults *T) (*T, error) {
	// Create default if not exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfgFile, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer cfgFile.Close()
		if err := toml.NewEncoder(cfgFile).Encode(defaults); err != nil {
			return nil, fmt.Errorf("failed to write default config %s: %w", path, err)
		}
		return defaults, nil
	}

	// Load existing config on top of the defaults so new keys get a value
	cfg := defaults
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
