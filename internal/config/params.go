package config

import (
	"fmt"
	"math"
	"sort"
)

var setters = map[string]func(c *Config, v float64){
	"dt":                 func(c *Config, v float64) { c.Dt = v },
	"ticks":              func(c *Config, v float64) { c.Ticks = int(math.Round(v)) },
	"bound":              func(c *Config, v float64) { c.Bound = v },
	"wall_margin":        func(c *Config, v float64) { c.WallMargin = v },
	"leaf_margin":        func(c *Config, v float64) { c.LeafMargin = v },
	"collision_distance": func(c *Config, v float64) { c.CollisionDistance = v },
	"gravity_x":          func(c *Config, v float64) { c.Gravity[0] = v },
	"gravity_y":          func(c *Config, v float64) { c.Gravity[1] = v },
	"count":              func(c *Config, v float64) { c.Init.Count = int(math.Round(v)) },
	"speed":              func(c *Config, v float64) { c.Init.Speed = v },
	"seed":               func(c *Config, v float64) { c.Init.Seed = int64(v) },
}

// SetParam assigns a numeric field by its yaml name. Integer fields are
// rounded.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
	}
	set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy that shares nothing with c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
