package config

import "sort"

// Presets are named launch scenarios. Each one starts from DefaultConfig.
var Presets = map[string]func(*Config){
	"lob": func(c *Config) {
		c.Script = []ScriptEntry{{Step: 0, Command: "launch"}}
	},
	"moon": func(c *Config) {
		c.Params.Gravity = "moon"
		c.Steps = 900
		c.Script = []ScriptEntry{{Step: 0, Command: "launch"}}
	},
	"mars": func(c *Config) {
		c.Params.Gravity = "mars"
		c.Params.Angle = 60
		c.Script = []ScriptEntry{{Step: 0, Command: "launch"}}
	},
	"gale": func(c *Config) {
		c.Params.Wind = 10
		c.Script = []ScriptEntry{{Step: 0, Command: "launch"}}
	},
	"headwind": func(c *Config) {
		c.Params.Angle = 70
		c.Script = []ScriptEntry{
			{Step: 0, Command: "launch"},
			{Step: 20, Command: "wind", Value: "-15"},
		}
	},
	"double": func(c *Config) {
		c.Params.Force = 0.03
		c.Script = []ScriptEntry{
			{Step: 0, Command: "launch"},
			{Step: 0, Command: "launch"},
		}
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
