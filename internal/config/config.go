// Package config holds the water simulation settings, their defaults and the
// viper loader that layers a config file, TIDEWATER_ environment variables
// and command-line flags over them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"tidewater/internal/surface"
	"tidewater/internal/tide"
	"tidewater/internal/wave"
)

// EnvPrefix is prepended to every environment override, e.g.
// TIDEWATER_SURFACE_BACKEND.
const EnvPrefix = "TIDEWATER"

// Backends accepted by surface.backend.
const (
	BackendOpenCL = "opencl"
	BackendCPU    = "cpu"
)

var (
	ErrInvalidSize       = errors.New("invalid surface size")
	ErrInvalidResolution = errors.New("invalid surface resolution")
	ErrInvalidDuration   = errors.New("invalid tide duration")
	ErrInvalidSurge      = errors.New("invalid surge wave")
	ErrInvalidBackend    = errors.New("invalid surface backend")
)

// Vec2 is a configured 2D vector.
type Vec2 struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// Resolution is the number of mesh segments per axis.
type Resolution struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// Wave is one ambient swell. Direction wins over Angle when both are set.
type Wave struct {
	Frequency float64  `mapstructure:"frequency"`
	Amplitude float64  `mapstructure:"amplitude"`
	Speed     float64  `mapstructure:"speed"`
	Angle     *float64 `mapstructure:"angle"`
	Direction *Vec2    `mapstructure:"direction"`
	Steepness float64  `mapstructure:"steepness"`
	Active    *bool    `mapstructure:"active"`
}

// Surge is the tidal wave.
type Surge struct {
	Wavelength float64  `mapstructure:"wavelength"`
	Steepness  float64  `mapstructure:"steepness"`
	Angle      *float64 `mapstructure:"angle"`
	Direction  *Vec2    `mapstructure:"direction"`
	Height     float64  `mapstructure:"height"`
}

// Tide holds the phase durations.
type Tide struct {
	Dry     time.Duration `mapstructure:"dry"`
	Wave    time.Duration `mapstructure:"wave"`
	Flooded time.Duration `mapstructure:"flooded"`
}

// Surface selects and tunes the mesh deformer.
type Surface struct {
	Backend     string  `mapstructure:"backend"`
	Workers     int     `mapstructure:"workers"`
	Verify      bool    `mapstructure:"verify"`
	NormalScale float64 `mapstructure:"normal_scale"`
}

// Config is the full simulation configuration.
type Config struct {
	Size       Vec2       `mapstructure:"size"`
	Resolution Resolution `mapstructure:"resolution"`
	Waves      []Wave     `mapstructure:"waves"`
	Surge      Surge      `mapstructure:"surge"`
	Tide       Tide       `mapstructure:"tide"`
	Surface    Surface    `mapstructure:"surface"`
}

func ptr[T any](v T) *T { return &v }

// Default returns a small calm sea with one tidal surge every six seconds.
func Default() Config {
	return Config{
		Size:       Vec2{X: 40, Y: 40},
		Resolution: Resolution{X: 128, Y: 128},
		Waves: []Wave{
			{Frequency: 0.6, Amplitude: 0.12, Speed: 1.1, Angle: ptr(30.0), Steepness: 0.4},
			{Frequency: 1.4, Amplitude: 0.05, Speed: 2.3, Angle: ptr(160.0), Steepness: 0.2},
		},
		Surge: Surge{Wavelength: 40, Steepness: 4, Angle: ptr(0.0), Height: 1.5},
		Tide:  Tide{Dry: 2 * time.Second, Wave: time.Second, Flooded: 2 * time.Second},
		Surface: Surface{
			Backend:     BackendOpenCL,
			NormalScale: 1,
		},
	}
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"backend":    "surface.backend",
	"workers":    "surface.workers",
	"verify-gpu": "surface.verify",
}

// Load reads path (optional, any format viper understands), then the
// environment, then the flags that were set on the command line. Waves are
// only replaced as a whole.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if !v.IsSet("waves") {
		cfg.Waves = Default().Waves
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("size.x", d.Size.X)
	v.SetDefault("size.y", d.Size.Y)
	v.SetDefault("resolution.x", d.Resolution.X)
	v.SetDefault("resolution.y", d.Resolution.Y)
	v.SetDefault("surge.wavelength", d.Surge.Wavelength)
	v.SetDefault("surge.steepness", d.Surge.Steepness)
	v.SetDefault("surge.angle", *d.Surge.Angle)
	v.SetDefault("surge.height", d.Surge.Height)
	v.SetDefault("tide.dry", d.Tide.Dry)
	v.SetDefault("tide.wave", d.Tide.Wave)
	v.SetDefault("tide.flooded", d.Tide.Flooded)
	v.SetDefault("surface.backend", d.Surface.Backend)
	v.SetDefault("surface.workers", d.Surface.Workers)
	v.SetDefault("surface.verify", d.Surface.Verify)
	v.SetDefault("surface.normal_scale", d.Surface.NormalScale)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if c.Size.X <= 0 || c.Size.Y <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %gx%g", ErrInvalidSize, c.Size.X, c.Size.Y))
	}
	if c.Resolution.X <= 0 || c.Resolution.Y <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, c.Resolution.X, c.Resolution.Y))
	}
	for name, d := range map[string]time.Duration{"dry": c.Tide.Dry, "wave": c.Tide.Wave, "flooded": c.Tide.Flooded} {
		if d < 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %s is %s", ErrInvalidDuration, name, d))
		}
	}
	if c.Surge.Wavelength < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: wavelength %g", ErrInvalidSurge, c.Surge.Wavelength))
	}
	if c.Surge.Steepness < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: steepness %g", ErrInvalidSurge, c.Surge.Steepness))
	}
	switch c.Surface.Backend {
	case BackendOpenCL, BackendCPU:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Surface.Backend))
	}
	if c.Surface.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d workers", ErrInvalidBackend, c.Surface.Workers))
	}
	return err
}

func direction(vec *Vec2, angle *float64) mgl64.Vec2 {
	if vec != nil {
		return mgl64.Vec2{vec.X, vec.Y}
	}
	if angle != nil {
		return wave.Direction(*angle)
	}
	return wave.Direction(0)
}

// Field builds the immutable wave field.
func (c Config) Field() *wave.Field {
	components := make([]wave.Component, 0, len(c.Waves))
	for _, w := range c.Waves {
		components = append(components, wave.Component{
			Frequency: w.Frequency,
			Amplitude: w.Amplitude,
			Speed:     w.Speed,
			Direction: direction(w.Direction, w.Angle),
			Steepness: w.Steepness,
			Active:    w.Active == nil || *w.Active,
		})
	}
	return wave.NewField(components, wave.Surge{
		Wavelength: c.Surge.Wavelength,
		Steepness:  c.Surge.Steepness,
		Direction:  direction(c.Surge.Direction, c.Surge.Angle),
		Height:     c.Surge.Height,
	})
}

// Durations returns the tide phase lengths.
func (c Config) Durations() tide.Durations {
	return tide.Durations{Dry: c.Tide.Dry, Wave: c.Tide.Wave, Flooded: c.Tide.Flooded}
}

// MeshSize returns the surface extent in world units.
func (c Config) MeshSize() mgl64.Vec2 { return mgl64.Vec2{c.Size.X, c.Size.Y} }

// MeshResolution returns the surface segment counts.
func (c Config) MeshResolution() surface.Resolution {
	return surface.Resolution{X: c.Resolution.X, Y: c.Resolution.Y}
}
