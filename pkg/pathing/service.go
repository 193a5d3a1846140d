package pathing

import (
	"os"
	"path/filepath"
)

const (
	defaultDataDir   = "/var/lib/smartcity_solar"
	defaultConfigDir = "/etc/smartcity_solar"
)

// EnsureDirs creates the data and config directories if they do not exist.
// Must be called on startup, before the database or config is touched.
func EnsureDirs() error {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
		GetConfigDir(),
	}

	// Create all directories
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

func GetSolarDbPath() string {
	// Join path
	return filepath.Join(GetDataDir(), "smartcity-solar.db")
}

func GetReportDir() string {
	return filepath.Join(GetDataDir(), "reports")
}

// GetDataDir can be overridden with SMARTCITY_SOLAR_DATA_DIR.
func GetDataDir() string {
	if dir := os.Getenv("SMARTCITY_SOLAR_DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataDir
}

// GetConfigDir can be overridden with SMARTCITY_SOLAR_CONFIG_DIR.
func GetConfigDir() string {
	if dir := os.Getenv("SMARTCITY_SOLAR_CONFIG_DIR"); dir != "" {
		return dir
	}
	return defaultConfigDir
}
