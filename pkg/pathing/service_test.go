package pathing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirsFromEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv("SMARTCITY_SOLAR_DATA_DIR", filepath.Join(base, "data"))
	t.Setenv("SMARTCITY_SOLAR_CONFIG_DIR", filepath.Join(base, "etc"))

	assert.Equal(t, filepath.Join(base, "data", "smartcity-solar.db"), GetSolarDbPath())
	assert.Equal(t, filepath.Join(base, "data", "reports"), GetReportDir())

	require.NoError(t, EnsureDirs())
	for _, dir := range []string{GetDataDir(), GetConfigDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDefaultDirs(t *testing.T) {
	t.Setenv("SMARTCITY_SOLAR_DATA_DIR", "")
	t.Setenv("SMARTCITY_SOLAR_CONFIG_DIR", "")

	assert.Equal(t, "/var/lib/smartcity_solar", GetDataDir())
	assert.Equal(t, "/etc/smartcity_solar", GetConfigDir())
}
