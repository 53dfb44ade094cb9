// Package config loads penstroke settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML or YAML file, chosen by extension (.toml, .yaml, .yml)
//  3. Environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # Environment
//
//	PENSTROKE_MODEL_URL   model service base URL
//	REDIS_ADDR            Redis address; selects the redis cache backend
//	MONGO_URL             MongoDB URI; selects the mongo store backend
//	DB_NAME               MongoDB database name
//	PENSTROKE_ADDR        HTTP listen address
//
// Example penstroke.toml:
//
//	[synthesis]
//	bias = 0.6
//	style = 3
//
//	[model]
//	url = "http://localhost:8501"
//	timeout = "90s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/pipeline"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Environment variable names.
const (
	EnvModelURL = "PENSTROKE_MODEL_URL"
	EnvRedis    = "REDIS_ADDR"
	EnvMongo    = "MONGO_URL"
	EnvDBName   = "DB_NAME"
	EnvAddr     = "PENSTROKE_ADDR"
)

// Config holds all settings.
type Config struct {
	Synthesis Synthesis `toml:"synthesis" yaml:"synthesis"`
	Model     Model     `toml:"model" yaml:"model"`
	Cache     Cache     `toml:"cache" yaml:"cache"`
	Store     Store     `toml:"store" yaml:"store"`
	Server    Server    `toml:"server" yaml:"server"`
}

// Synthesis holds default line and canvas parameters.
type Synthesis struct {
	Bias        float64 `toml:"bias" yaml:"bias"`
	Style       int     `toml:"style" yaml:"style"`
	Color       string  `toml:"color" yaml:"color"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width"`
	Width       int     `toml:"width" yaml:"width"`
	LineHeight  int     `toml:"line_height" yaml:"line_height"`
	Scale       float64 `toml:"scale" yaml:"scale"`
}

// Model selects the sampler.
type Model struct {
	// URL is the base URL of a remote model service.
	URL string `toml:"url" yaml:"url"`

	// Replay is a recording file used instead of a model service.
	Replay string `toml:"replay" yaml:"replay"`

	// Concurrent allows parallel calls into the model.
	Concurrent bool `toml:"concurrent" yaml:"concurrent"`

	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
}

// Cache selects the result cache.
type Cache struct {
	Backend   string `toml:"backend" yaml:"backend"`
	Dir       string `toml:"dir" yaml:"dir"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
	Prefix    string `toml:"prefix" yaml:"prefix"`
}

// Store selects the document store.
type Store struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	MongoURL string `toml:"mongo_url" yaml:"mongo_url"`
	Database string `toml:"database" yaml:"database"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Synthesis: Synthesis{
			Bias:        synth.DefaultBias,
			Style:       synth.DefaultStyle,
			Color:       path.DefaultColor,
			StrokeWidth: path.DefaultStrokeWidth,
			Width:       layout.DefaultWidth,
			LineHeight:  layout.DefaultLineHeight,
			Scale:       stroke.DefaultScale,
		},
		Model: Model{
			Timeout: model.DefaultTimeout,
		},
		Cache: Cache{
			Backend: CacheFile,
			Prefix:  "penstroke:",
		},
		Store: Store{
			Backend:  StoreMemory,
			Database: "penstroke",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
		},
	}
}

// Load returns the defaults overlaid with the file at path (if path is not
// empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile overlays the settings in a TOML or YAML file. Unknown keys are
// rejected.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// ApplyEnv overlays settings from environment variables looked up with
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvModelURL); ok && v != "" {
		c.Model.URL = v
	}
	if v, ok := lookup(EnvRedis); ok && v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v, ok := lookup(EnvMongo); ok && v != "" {
		c.Store.MongoURL = v
		c.Store.Backend = StoreMongo
	}
	if v, ok := lookup(EnvDBName); ok && v != "" {
		c.Store.Database = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	s := c.Synthesis
	if err := errors.ValidateBias(0, s.Bias); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "synthesis.bias")
	}
	if err := errors.ValidateStyle(0, s.Style); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "synthesis.style")
	}
	if err := errors.ValidateColor(0, s.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "synthesis.color")
	}
	if err := errors.ValidateStrokeWidth(0, s.StrokeWidth); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "synthesis.stroke_width")
	}
	if err := errors.ValidateCanvas(s.Width, s.LineHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "synthesis")
	}
	if s.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "synthesis.scale must be positive (got %v)", s.Scale)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_url is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: memory, file, mongo)", c.Store.Backend)
	}

	if c.Model.URL != "" && c.Model.Replay != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "model.url and model.replay are mutually exclusive")
	}
	return nil
}

// Apply fills the unset synthesis fields of opts with these defaults.
func (s Synthesis) Apply(opts *pipeline.Options) {
	if opts.Bias == nil {
		b := s.Bias
		opts.Bias = &b
	}
	if opts.Style == nil {
		st := s.Style
		opts.Style = &st
	}
	if opts.Color == "" {
		opts.Color = s.Color
	}
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = s.StrokeWidth
	}
	if opts.Width == 0 {
		opts.Width = s.Width
	}
	if opts.LineHeight == 0 {
		opts.LineHeight = s.LineHeight
	}
	if opts.Scale == 0 {
		opts.Scale = s.Scale
	}
}
