package config

var Presets = map[string]map[string]*Config{
	"headon": {
		"classic": {
			Scenario: "headon", Dt: 0.016, Ticks: 200,
		},
		"double": {
			Scenario: "headon", Dt: 0.016, Ticks: 200, Pairs: "both",
		},
	},
	"wall": {
		"bounce": {
			Scenario: "wall", Dt: 0.016, Ticks: 120, WallMargin: 0.06,
			Init: ScenarioConfig{Speed: 0.5},
		},
		"fast": {
			Scenario: "wall", Dt: 0.016, Ticks: 120, WallMargin: 0.06,
			Init: ScenarioConfig{Speed: 3},
		},
	},
	"pair": {
		"drift": {
			Scenario: "pair", Dt: 0.016, Ticks: 600,
		},
		"falling": {
			Scenario: "pair", Dt: 0.016, Ticks: 600, Gravity: [2]float64{0, -9.8},
		},
	},
	"gas": {
		"sparse": {
			Scenario: "gas", Dt: 0.016, Ticks: 600,
			Init: ScenarioConfig{Count: 30, Seed: 1, Speed: 0.5},
		},
		"dense": {
			Scenario: "gas", Dt: 0.016, Ticks: 600,
			Init: ScenarioConfig{Count: 250, Seed: 1, Speed: 0.5},
		},
		"hot": {
			Scenario: "gas", Dt: 0.016, Ticks: 600,
			Init: ScenarioConfig{Count: 100, Seed: 7, Speed: 2},
		},
	},
	"lattice": {
		"break": {
			Scenario: "lattice", Dt: 0.016, Ticks: 400,
			Init: ScenarioConfig{Count: 25, Speed: 1.5},
		},
	},
	"anchor": {
		"ring": {
			Scenario: "anchor", Dt: 0.016, Ticks: 300,
			Init: ScenarioConfig{Count: 12, Speed: 0.4},
		},
	},
}

// GetPreset returns a full config for the named preset. Preset entries only
// list what differs from the defaults.
func GetPreset(scenarioName, preset string) *Config {
	scenarioPresets, ok := Presets[scenarioName]
	if !ok {
		return nil
	}
	p, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return p.over(DefaultConfig())
}

func ListPresets(scenarioName string) []string {
	scenarioPresets, ok := Presets[scenarioName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}

// over copies the non-zero fields of c onto base.
func (c *Config) over(base *Config) *Config {
	cfg := *base
	cfg.Scenario = c.Scenario
	if c.Dt != 0 {
		cfg.Dt = c.Dt
	}
	if c.Ticks != 0 {
		cfg.Ticks = c.Ticks
	}
	if c.WallMargin != 0 {
		cfg.WallMargin = c.WallMargin
	}
	if c.Gravity != [2]float64{} {
		cfg.Gravity = c.Gravity
	}
	if c.Pairs != "" {
		cfg.Pairs = c.Pairs
	}
	if c.Init.Count != 0 {
		cfg.Init.Count = c.Init.Count
	}
	if c.Init.Seed != 0 {
		cfg.Init.Seed = c.Init.Seed
	}
	if c.Init.Speed != 0 {
		cfg.Init.Speed = c.Init.Speed
	}
	return &cfg
}
