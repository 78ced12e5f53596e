// Package config loads the settings of the match service from a .env file and
// SCHNAPSEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/schnapsen/bots"
	engine "github.com/jason-s-yu/schnapsen/engine"
)

// Environment variable names.
const (
	EnvLogLevel       = "SCHNAPSEN_LOG_LEVEL"
	EnvWinPoints      = "SCHNAPSEN_WIN_POINTS"
	EnvMatchTarget    = "SCHNAPSEN_MATCH_TARGET"
	EnvForfeitPoints  = "SCHNAPSEN_FORFEIT_POINTS"
	EnvMustHeadTrick  = "SCHNAPSEN_MUST_HEAD_TRICK"
	EnvMarriagePhase2 = "SCHNAPSEN_MARRIAGE_PHASE_TWO"
	EnvTurnTimeout    = "SCHNAPSEN_TURN_TIMEOUT"
	EnvBotDepth       = "SCHNAPSEN_BOT_DEPTH"
	EnvBotSamples     = "SCHNAPSEN_BOT_SAMPLES"
	EnvBotRollouts    = "SCHNAPSEN_BOT_ROLLOUTS"
	EnvSeed           = "SCHNAPSEN_SEED"
	EnvSeriesWorkers  = "SCHNAPSEN_SERIES_WORKERS"
)

// Config holds everything a match or a series of matches needs.
type Config struct {
	LogLevel logrus.Level

	Rules       engine.Rules
	TurnTimeout time.Duration // 0 disables the per-turn deadline
	Budget      bots.Budget   // zero fields keep each bot's defaults

	Seed          uint64
	SeriesWorkers int
}

// Default returns the standard rules, a 5s turn timeout and info logging.
func Default() Config {
	return Config{
		LogLevel:      logrus.InfoLevel,
		Rules:         engine.DefaultRules(),
		TurnTimeout:   5 * time.Second,
		Seed:          1,
		SeriesWorkers: 4,
	}
}

// Load reads the given .env files (".env" when none are named; a missing file
// is not an error) and then builds a Config from the process environment.
// Values already present in the environment win over the files.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv on top of Default and validates it.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	if v := getenv(EnvLogLevel); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = lvl
		}
	}

	cfg.Rules.WinPoints = uint8Def(getenv, EnvWinPoints, cfg.Rules.WinPoints, &errs)
	cfg.Rules.MatchTarget = uint8Def(getenv, EnvMatchTarget, cfg.Rules.MatchTarget, &errs)
	cfg.Rules.ForfeitPoints = uint8Def(getenv, EnvForfeitPoints, cfg.Rules.ForfeitPoints, &errs)
	cfg.Rules.MustHeadTrick = boolDef(getenv, EnvMustHeadTrick, cfg.Rules.MustHeadTrick, &errs)
	cfg.Rules.AllowMarriagePhaseTwo = boolDef(getenv, EnvMarriagePhase2, cfg.Rules.AllowMarriagePhaseTwo, &errs)

	if v := getenv(EnvTurnTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTurnTimeout, err))
		} else {
			cfg.TurnTimeout = d
		}
	}

	cfg.Budget.Depth = intDef(getenv, EnvBotDepth, cfg.Budget.Depth, &errs)
	cfg.Budget.Samples = intDef(getenv, EnvBotSamples, cfg.Budget.Samples, &errs)
	cfg.Budget.Rollouts = intDef(getenv, EnvBotRollouts, cfg.Budget.Rollouts, &errs)
	cfg.SeriesWorkers = intDef(getenv, EnvSeriesWorkers, cfg.SeriesWorkers, &errs)

	if v := getenv(EnvSeed); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			cfg.Seed = s
		}
	}

	if len(errs) == 0 {
		if err := cfg.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}

// Validate checks value ranges that the parsers cannot.
func (c *Config) Validate() error {
	switch {
	case c.Rules.WinPoints == 0 || c.Rules.WinPoints > 120:
		return fmt.Errorf("win points %d out of range 1..120", c.Rules.WinPoints)
	case c.Rules.MatchTarget == 0:
		return errors.New("match target must be positive")
	case c.Rules.ForfeitPoints == 0 || c.Rules.ForfeitPoints > 3:
		return fmt.Errorf("forfeit points %d out of range 1..3", c.Rules.ForfeitPoints)
	case c.TurnTimeout < 0:
		return fmt.Errorf("turn timeout %s is negative", c.TurnTimeout)
	case c.Budget.Depth < 0 || c.Budget.Samples < 0 || c.Budget.Rollouts < 0:
		return errors.New("bot budget values must not be negative")
	case c.SeriesWorkers <= 0:
		return errors.New("series workers must be positive")
	}
	return nil
}

// NewLogger returns a text logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(c.LogLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

func intDef(getenv func(string) string, key string, def int, errs *[]error) int {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func uint8Def(getenv func(string) string, key string, def uint8, errs *[]error) uint8 {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return uint8(n)
}

func boolDef(getenv func(string) string, key string, def bool, errs *[]error) bool {
	v := getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, v))
	return def
}
