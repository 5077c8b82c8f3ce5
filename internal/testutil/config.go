package testutil

import (
	"testing"

	"github.com/lepinkainen/crosspass/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	PlayStationURL   string
	XboxSiglsURL     string
	XboxProductsURL  string
	XboxMarket       string
	XboxLanguage     string
	XboxBatchSize    int
	MatchThreshold   int
	RAWGURL          string
	RAWGAPIKey       string
	ExtraDecorations []string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		PlayStationURL:   config.PlayStationURL,
		XboxSiglsURL:     config.XboxSiglsURL,
		XboxProductsURL:  config.XboxProductsURL,
		XboxMarket:       config.XboxMarket,
		XboxLanguage:     config.XboxLanguage,
		XboxBatchSize:    config.XboxBatchSize,
		MatchThreshold:   config.MatchThreshold,
		RAWGURL:          config.RAWGURL,
		RAWGAPIKey:       config.RAWGAPIKey,
		ExtraDecorations: config.ExtraDecorations,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.PlayStationURL = state.PlayStationURL
	config.XboxSiglsURL = state.XboxSiglsURL
	config.XboxProductsURL = state.XboxProductsURL
	config.XboxMarket = state.XboxMarket
	config.XboxLanguage = state.XboxLanguage
	config.XboxBatchSize = state.XboxBatchSize
	config.MatchThreshold = state.MatchThreshold
	config.RAWGURL = state.RAWGURL
	config.RAWGAPIKey = state.RAWGAPIKey
	config.ExtraDecorations = state.ExtraDecorations
}

// ResetConfig resets viper, loads the package defaults, and restores the
// previous config state when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()
	config.InitConfig()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value for the duration of the test.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)
	viper.Set(key, value)

	t.Cleanup(func() {
		// viper has no Unset; an unset key can only be approximated by nil
		if hadValue {
			viper.Set(key, oldValue)
		} else {
			viper.Set(key, nil)
		}
	})
}

// SetupTestCache points the cache at a database inside env and returns its path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("cache", "test-cache.db")
	env.WriteFileString("cache/.keep", "")

	SetViperValue(t, "cache.dbfile", dbPath)
	SetViperValue(t, "cache.ttl", "24h")
	SetViperValue(t, "cache.disabled", false)

	return dbPath
}
