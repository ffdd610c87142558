// Package config loads tool configuration from a TOML file and fills
// in defaults for anything the file leaves out. All settings can also
// be overridden per invocation by CLI flags; the file only sets the
// baseline.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/mesh"
	"github.com/neurite-tools/neurite/pkg/resample"
)

// Config is the full tool configuration.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
}

// PipelineConfig sets refinement defaults.
type PipelineConfig struct {
	// Delta is the initial target node spacing.
	Delta float64 `toml:"delta"`
	// Levels is the number of refinement levels to generate; the
	// spacing halves between levels.
	Levels int `toml:"levels"`
	// Method selects the resampler, "linear" or "cubic".
	Method string `toml:"method"`
	// Segments is the ring resolution for tube meshes.
	Segments int `toml:"segments"`
}

// CacheConfig selects and parameterizes the cache backend. A non-empty
// RedisAddr selects Redis; otherwise Dir selects the file cache; with
// neither set, caching is disabled.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

// ServerConfig parameterizes the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig parameterizes the optional run store. An empty
// MongoURI disables persistence.
type StorageConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// duration lets TTLs be written as "24h" in the file.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Value returns the duration as a time.Duration.
func (d duration) Value() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			Delta:    1.0,
			Levels:   1,
			Method:   resample.MethodLinear,
			Segments: mesh.DefaultSegments,
		},
		Cache: CacheConfig{
			TTL: duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: StorageConfig{
			Database: "neurite",
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not
// an error; an unparseable one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Pipeline.Delta <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pipeline.delta must be positive, got %g", c.Pipeline.Delta)
	}
	if c.Pipeline.Levels < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "pipeline.levels must be at least 1, got %d", c.Pipeline.Levels)
	}
	if c.Pipeline.Segments < 3 {
		return errors.New(errors.ErrCodeInvalidInput, "pipeline.segments must be at least 3, got %d", c.Pipeline.Segments)
	}
	return resample.ValidateMethod(c.Pipeline.Method)
}
