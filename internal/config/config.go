// Package config loads the planner's tunables (default spend tolerance,
// hop limits, guard budgets, server/NATS endpoints) from a YAML file via
// viper, the way the exchange connectors load theirs.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mExOms/convroute/pkg/guards"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/search"
)

// SearchDefaults mirrors the tunable portion of searchservice.Config that
// a deployment configures once rather than per-request.
type SearchDefaults struct {
	ToleranceMin      string
	ToleranceMax      string
	HopLimits         search.HopLimits
	SearchGuards      guards.Limits
	ThrowOnGuardLimit bool
}

// ServerConfig is the HTTP/NATS surface configuration for cmd/apiserver.
type ServerConfig struct {
	ListenAddr   string
	NATSURL      string
	OutcomeTopic string
}

// Config is the planner's full runtime configuration.
type Config struct {
	Search SearchDefaults
	Server ServerConfig
}

// Load reads configuration from the named file (YAML, TOML or JSON;
// viper infers the format from its extension) plus environment variable
// overrides prefixed CONVROUTE_, the way the exchange factory layers
// viper keys over defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CONVROUTE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Config{
		Search: SearchDefaults{
			ToleranceMin: v.GetString("search.tolerance.min"),
			ToleranceMax: v.GetString("search.tolerance.max"),
			HopLimits: search.HopLimits{
				Min: v.GetInt("search.hopLimits.min"),
				Max: v.GetInt("search.hopLimits.max"),
			},
			SearchGuards: guards.Limits{
				MaxExpansions:    v.GetInt64("search.guards.maxExpansions"),
				MaxVisitedStates: v.GetInt64("search.guards.maxVisitedStates"),
				TimeBudgetMs:     timeBudgetOrNoBudget(v),
			},
			ThrowOnGuardLimit: v.GetBool("search.throwOnGuardLimit"),
		},
		Server: ServerConfig{
			ListenAddr:   v.GetString("server.listenAddr"),
			NATSURL:      v.GetString("server.natsUrl"),
			OutcomeTopic: v.GetString("server.outcomeTopic"),
		},
	}, nil
}

func timeBudgetOrNoBudget(v *viper.Viper) int64 {
	if !v.IsSet("search.guards.timeBudgetMs") {
		return guards.NoBudget
	}
	return v.GetInt64("search.guards.timeBudgetMs")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.tolerance.min", "0")
	v.SetDefault("search.tolerance.max", "0.10")
	v.SetDefault("search.hopLimits.min", 1)
	v.SetDefault("search.hopLimits.max", 4)
	v.SetDefault("search.guards.maxExpansions", 250000)
	v.SetDefault("search.guards.maxVisitedStates", 250000)
	v.SetDefault("search.throwOnGuardLimit", false)
	v.SetDefault("server.listenAddr", ":8080")
	v.SetDefault("server.natsUrl", "nats://localhost:4222")
	v.SetDefault("server.outcomeTopic", "planner.outcomes")
}

// ParseToleranceWindow builds a money.ToleranceWindow from the configured
// min/max strings at canonical scale.
func (d SearchDefaults) ParseToleranceWindow() (money.ToleranceWindow, error) {
	min, err := money.NewFromString(d.ToleranceMin, money.CanonicalScale)
	if err != nil {
		return money.ToleranceWindow{}, err
	}
	max, err := money.NewFromString(d.ToleranceMax, money.CanonicalScale)
	if err != nil {
		return money.ToleranceWindow{}, err
	}
	return money.NewToleranceWindow(min, max)
}
