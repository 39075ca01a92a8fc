package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/projectile/internal/params"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth        = 800.0
	DefaultHeight       = 600.0
	DefaultRadius       = 20.0
	DefaultRestitution  = 0.8
	DefaultDensity      = 0.001
	DefaultFriction     = 0.1
	DefaultDt           = 1.0 / 60.0
	DefaultForceScale   = 1e6
	DefaultGravityScale = 1000.0
	DefaultSteps        = 600
	DefaultFPS          = 30
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	World      WorldConfig      `yaml:"world"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Params     Params           `yaml:"params"`
	Engine     EngineConfig     `yaml:"engine"`
	Steps      int              `yaml:"steps"`
	FPS        int              `yaml:"fps"`
	Script     []ScriptEntry    `yaml:"script,omitempty"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ProjectileConfig struct {
	Radius      float64 `yaml:"radius"`
	Restitution float64 `yaml:"restitution"`
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
}

// Params is the initial launch setting block. Gravity is one of the
// selector names.
type Params struct {
	Angle   float64 `yaml:"angle"`
	Force   float64 `yaml:"force"`
	Wind    float64 `yaml:"wind"`
	Gravity string  `yaml:"gravity"`
}

type EngineConfig struct {
	Dt           float64 `yaml:"dt"`
	ForceScale   float64 `yaml:"force_scale"`
	GravityScale float64 `yaml:"gravity_scale"`
}

// ScriptEntry is a UI event delivered before step Step runs. Command is one
// of angle, force, wind, gravity or launch; Value is the raw control text.
type ScriptEntry struct {
	Step    int    `yaml:"step"`
	Command string `yaml:"command"`
	Value   string `yaml:"value,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{Width: DefaultWidth, Height: DefaultHeight},
		Projectile: ProjectileConfig{
			Radius:      DefaultRadius,
			Restitution: DefaultRestitution,
			Density:     DefaultDensity,
			Friction:    DefaultFriction,
		},
		Params: Params{
			Angle:   params.DefaultAngle,
			Force:   params.DefaultForce,
			Wind:    params.DefaultWind,
			Gravity: params.Earth.String(),
		},
		Engine: EngineConfig{
			Dt:           DefaultDt,
			ForceScale:   DefaultForceScale,
			GravityScale: DefaultGravityScale,
		},
		Steps: DefaultSteps,
		FPS:   DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"world.width", c.World.Width},
		{"world.height", c.World.Height},
		{"projectile.radius", c.Projectile.Radius},
		{"projectile.density", c.Projectile.Density},
		{"engine.dt", c.Engine.Dt},
		{"engine.force_scale", c.Engine.ForceScale},
		{"engine.gravity_scale", c.Engine.GravityScale},
		{"steps", float64(c.Steps)},
		{"fps", float64(c.FPS)},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.v)
		}
	}
	if c.Projectile.Restitution < 0 {
		return fmt.Errorf("%w: projectile.restitution must not be negative", ErrInvalid)
	}
	if c.Params.Force < 0 {
		return fmt.Errorf("%w: params.force must not be negative, got %v", ErrInvalid, c.Params.Force)
	}
	if _, ok := params.ParseGravity(c.Params.Gravity); !ok {
		return fmt.Errorf("%w: params.gravity %q (want one of %s)", ErrInvalid, c.Params.Gravity, strings.Join(params.GravityNames(), ", "))
	}
	for i, e := range c.Script {
		if e.Step < 0 {
			return fmt.Errorf("%w: script[%d].step must not be negative", ErrInvalid, i)
		}
	}
	return nil
}

// Initial converts the params block into store parameters. The angle keeps
// only its integer part, as typed angle input does. The gravity name has
// already been checked by Validate; unknown names fall back to earth.
func (c *Config) Initial() params.Parameters {
	g, _ := params.ParseGravity(c.Params.Gravity)
	return params.Parameters{
		AngleDegrees: math.Trunc(c.Params.Angle),
		Force:        c.Params.Force,
		Wind:         c.Params.Wind,
		Gravity:      g,
	}
}
