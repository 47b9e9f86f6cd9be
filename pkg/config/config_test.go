package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "mdl_", cfg.Database.TablePrefix)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Contains(t, cfg.Platform.EnrolPlugins, "manual")
	assert.Empty(t, cfg.Platform.SiteAdmins)
	assert.Equal(t, time.UTC, cfg.Platform.DisplayLocation())
}

func TestFromViperParsesSiteAdmins(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SITE_ADMINS", "2, 15 ,")
	v.Set("DB_DRIVER", "MySQL")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 15}, cfg.Platform.SiteAdmins)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
}

func TestFromViperRejectsBadInput(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SITE_ADMINS", "admin")
	_, err := fromViper(v)
	require.Error(t, err)

	v = viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "sqlite")
	_, err = fromViper(v)
	require.Error(t, err)
}

func TestDisplayLocationFallsBackToUTC(t *testing.T) {
	p := PlatformConfig{DisplayTimezone: "Not/AZone"}
	assert.Equal(t, time.UTC, p.DisplayLocation())
}
