// Package config loads game settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/terracore/engine/globals"
	"github.com/nathoo/terracore/types"
)

// Config holds the tunable rules constants of a game.
type Config struct {
	Players           []string    `yaml:"players"`
	Seed              int64       `yaml:"seed"`
	StartingTR        int         `yaml:"starting_tr"`
	StartingHand      int         `yaml:"starting_hand"`
	StartingStock     types.Units `yaml:"starting_stock"`
	SteelValue        int         `yaml:"steel_value"`    // megacredits per steel
	TitaniumValue     int         `yaml:"titanium_value"` // megacredits per titanium
	GreeneryPlantCost int         `yaml:"greenery_plant_cost"`
	CardCost          int         `yaml:"card_cost"` // price of buying a drawn card
	ProductionFloors  types.Units `yaml:"production_floors"`
	Globals           Globals     `yaml:"globals"`
	LogLevel          string      `yaml:"log_level"`
}

// Globals configures each global track.
type Globals struct {
	Temperature globals.Spec `yaml:"temperature"`
	Oxygen      globals.Spec `yaml:"oxygen"`
	Venus       globals.Spec `yaml:"venus"`
}

// Default returns the standard rules.
func Default() Config {
	return Config{
		Players:           []string{"red", "blue"},
		StartingTR:        20,
		StartingHand:      0,
		SteelValue:        2,
		TitaniumValue:     3,
		GreeneryPlantCost: 8,
		CardCost:          3,
		Globals: Globals{
			Temperature: globals.Spec{Min: -30, Max: 8, Step: 2},
			Oxygen:      globals.Spec{Min: 0, Max: 14, Step: 1},
			Venus:       globals.Spec{Min: 0, Max: 30, Step: 2},
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player is required")
	}
	seen := map[string]bool{}
	for _, p := range c.Players {
		if p == "" {
			return fmt.Errorf("player names must not be empty")
		}
		if seen[p] {
			return fmt.Errorf("duplicate player %q", p)
		}
		seen[p] = true
	}
	if c.SteelValue < 0 || c.TitaniumValue < 0 {
		return fmt.Errorf("material values must not be negative")
	}
	if c.CardCost < 0 {
		return fmt.Errorf("card_cost must not be negative")
	}
	for name, spec := range map[string]globals.Spec{
		globals.Temperature: c.Globals.Temperature,
		globals.Oxygen:      c.Globals.Oxygen,
		globals.Venus:       c.Globals.Venus,
	} {
		if spec.Max < spec.Min {
			return fmt.Errorf("global %s: max %d below min %d", name, spec.Max, spec.Min)
		}
		if spec.Step <= 0 {
			return fmt.Errorf("global %s: step must be positive", name)
		}
	}
	return nil
}
