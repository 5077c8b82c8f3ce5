package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/crosspass/cmd/compare"
	"github.com/lepinkainen/crosspass/internal/cache"
	"github.com/lepinkainen/crosspass/internal/config"
	"github.com/lepinkainen/crosspass/internal/report"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	runCompare           = compare.Run
	stdout     io.Writer = os.Stdout
)

// CLI represents the complete command structure for the crosspass application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `name:"cache-db" help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 6h)" default:"24h"`
	NoCache     bool   `help:"Bypass the cache and always fetch from the vendors"`

	Compare   CompareCmd   `cmd:"" default:"withargs" help:"List games available on both PlayStation Plus and Xbox Game Pass"`
	Catalog   CatalogCmd   `cmd:"" help:"List the titles of one catalog"`
	Normalize NormalizeCmd `cmd:"" help:"Show the canonical form of titles"`
	Score     ScoreCmd     `cmd:"" help:"Show the similarity score of two titles"`
	Lookup    LookupCmd    `cmd:"" help:"Search a game on rawg.io"`
	Cache     CacheCmd     `cmd:"" help:"Manage the vendor payload cache"`
}

// CompareCmd represents the compare command
type CompareCmd struct {
	Threshold int    `short:"t" help:"Minimum similarity score (0-100) for a match; defaults to match.threshold from config" default:"-1"`
	Format    string `short:"F" help:"Report format: auto, table, markdown, json, text" default:"auto"`
	RAWG      bool   `name:"rawg" help:"Add release date and Metacritic score from rawg.io to every match"`
}

// CatalogCmd represents the catalog command
type CatalogCmd struct {
	Source string `arg:"" enum:"playstation,xbox" help:"Catalog to list: playstation or xbox"`
	Raw    bool   `help:"Print titles as published, without normalization"`
}

// NormalizeCmd represents the normalize command
type NormalizeCmd struct {
	Titles []string `arg:"" optional:"" help:"Titles to normalize"`
	Rules  bool     `help:"Print the decoration rules in the order they are applied"`
}

// ScoreCmd represents the score command
type ScoreCmd struct {
	A string `arg:"" help:"First title"`
	B string `arg:"" help:"Second title"`
}

// LookupCmd represents the lookup command
type LookupCmd struct {
	Name  string `arg:"" help:"Game name to search for"`
	Limit int    `short:"n" help:"Number of results" default:"5"`
}

// CacheCmd represents the cache command and its subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Delete all cached payloads of one source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("crosspass"),
		kong.Description("Find the games included in both PlayStation Plus and Xbox Game Pass."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)

	if cli.Verbose {
		initLogging(true)
	}
	ctx.FatalIfErrorf(updateGlobalConfig(&cli))

	err := ctx.Run()
	closeErr := cache.ResetGlobalCache()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.AutomaticEnv()
	if err := viper.BindEnv("rawg.apikey", "RAWG_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("Config file not found, writing default config file")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Warn("Could not write config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

// updateGlobalConfig copies flag values over the config file settings. A
// threshold of -1 means the flag was not given.
func updateGlobalConfig(cli *CLI) error {
	threshold := cli.Compare.Threshold
	if threshold != -1 && (threshold < 0 || threshold > 100) {
		return fmt.Errorf("--threshold must be between 0 and 100, got %d", threshold)
	}

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	viper.Set("cache.disabled", cli.NoCache)

	if threshold != -1 {
		config.SetMatchThreshold(threshold)
	}
	return nil
}

func (c *CompareCmd) Run(ctx context.Context) error {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	return runCompare(ctx, compare.Options{
		Threshold: config.MatchThreshold,
		Format:    format,
		RAWG:      c.RAWG,
		Output:    stdout,
	})
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// stdout carries the report
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
