package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config's shape for YAML unmarshalling; ShipClasses
// and NPCClasses are lists on disk (so IDs read naturally in the file)
// and get folded into maps once loaded.
type fileConfig struct {
	World struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"world"`
	ShipClasses []ShipClass `yaml:"shipClasses"`
	NPCClasses  []NPCClass  `yaml:"npcClasses"`
	Observability struct {
		EnablePprofTrace bool `yaml:"enablePprofTrace"`
	} `yaml:"observability"`
}

// Load reads a YAML configuration file from path and normalizes it,
// falling back to built-in defaults for any section the file omits.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := Config{
		World:         World{Width: fc.World.Width, Height: fc.World.Height},
		Observability: Observability{EnablePprofTrace: fc.Observability.EnablePprofTrace},
	}
	if len(fc.ShipClasses) > 0 {
		cfg.ShipClasses = make(map[string]ShipClass, len(fc.ShipClasses))
		for _, sc := range fc.ShipClasses {
			cfg.ShipClasses[sc.ID] = sc
		}
	}
	if len(fc.NPCClasses) > 0 {
		cfg.NPCClasses = make(map[string]NPCClass, len(fc.NPCClasses))
		for _, nc := range fc.NPCClasses {
			cfg.NPCClasses[nc.ID] = nc
		}
	}

	return cfg.normalized(), nil
}
