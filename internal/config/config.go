package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Default vendor endpoints. The Xbox URLs take the market and language from config.
const (
	DefaultPlayStationURL  = "https://www.playstation.com/bin/imagic/gameslist?locale=en-ca&categoryList=plus-games-list"
	DefaultXboxSiglsURL    = "https://catalog.gamepass.com/sigls/v2?id=09a72c0d-c466-426a-9580-b78955d8173a"
	DefaultXboxProductsURL = "https://displaycatalog.mp.microsoft.com/v7.0/products"
	DefaultRAWGURL         = "https://api.rawg.io/api/games"

	DefaultXboxMarket    = "CA"
	DefaultXboxLanguage  = "en-ca"
	DefaultXboxBatchSize = 20
	DefaultThreshold     = 95
)

// Global configuration variables
var (
	// PlayStationURL is the PlayStation Plus games list endpoint
	PlayStationURL string
	// XboxSiglsURL lists the Game Pass product IDs
	XboxSiglsURL string
	// XboxProductsURL resolves product IDs to localized titles
	XboxProductsURL string
	XboxMarket      string
	XboxLanguage    string
	// XboxBatchSize caps the number of product IDs per display catalog request
	XboxBatchSize int
	// MatchThreshold is the minimum similarity score for a cross-catalog match
	MatchThreshold int
	// RAWGURL is the RAWG games search endpoint
	RAWGURL string
	// RAWGAPIKey is the API key for rawg.io
	RAWGAPIKey string
	// ExtraDecorations are appended to the built-in title decoration table
	ExtraDecorations []string
)

// SetDefaults registers the viper defaults for every key InitConfig reads.
func SetDefaults() {
	viper.SetDefault("playstation.url", DefaultPlayStationURL)
	viper.SetDefault("xbox.siglsurl", DefaultXboxSiglsURL)
	viper.SetDefault("xbox.productsurl", DefaultXboxProductsURL)
	viper.SetDefault("xbox.market", DefaultXboxMarket)
	viper.SetDefault("xbox.language", DefaultXboxLanguage)
	viper.SetDefault("xbox.batchsize", DefaultXboxBatchSize)
	viper.SetDefault("match.threshold", DefaultThreshold)
	viper.SetDefault("rawg.url", DefaultRAWGURL)
	viper.SetDefault("normalize.extra", []string{})

	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "24h")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	PlayStationURL = viper.GetString("playstation.url")
	XboxSiglsURL = viper.GetString("xbox.siglsurl")
	XboxProductsURL = viper.GetString("xbox.productsurl")
	XboxMarket = viper.GetString("xbox.market")
	XboxLanguage = viper.GetString("xbox.language")
	XboxBatchSize = viper.GetInt("xbox.batchsize")
	if XboxBatchSize <= 0 {
		XboxBatchSize = DefaultXboxBatchSize
	}
	MatchThreshold = viper.GetInt("match.threshold")
	RAWGURL = viper.GetString("rawg.url")
	RAWGAPIKey = viper.GetString("rawg.apikey")

	var extra []string
	for _, d := range viper.GetStringSlice("normalize.extra") {
		if strings.TrimSpace(d) != "" {
			extra = append(extra, d)
		}
	}
	ExtraDecorations = extra
}

// SetMatchThreshold overrides the configured threshold (from a CLI flag)
func SetMatchThreshold(threshold int) {
	MatchThreshold = threshold
}
