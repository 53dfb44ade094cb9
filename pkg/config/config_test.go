package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/penstroke/pkg/cache"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/pipeline"
	"github.com/matzehuels/penstroke/pkg/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	s := cfg.Synthesis
	if s.Bias != 0.75 || s.Style != 9 || s.Color != "black" || s.StrokeWidth != 2 {
		t.Errorf("synthesis defaults = %+v", s)
	}
	if s.Width != 1000 || s.LineHeight != 60 || s.Scale != 1.5 {
		t.Errorf("canvas defaults = %+v", s)
	}
}

func TestReadTOML(t *testing.T) {
	p := writeFile(t, "penstroke.toml", `
[synthesis]
bias = 0.5
color = "navy"

[model]
url = "http://model:8501"
timeout = "90s"

[cache]
backend = "none"
`)
	cfg := Default()
	if err := cfg.ReadFile(p); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if cfg.Synthesis.Bias != 0.5 || cfg.Synthesis.Color != "navy" {
		t.Errorf("synthesis = %+v", cfg.Synthesis)
	}
	if cfg.Synthesis.Style != 9 {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.Model.URL != "http://model:8501" || cfg.Model.Timeout != 90*time.Second {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
}

func TestReadYAML(t *testing.T) {
	p := writeFile(t, "penstroke.yaml", `
synthesis:
  style: 3
  line_height: 80
store:
  backend: file
  dir: /tmp/docs
server:
  addr: ":9000"
`)
	cfg := Default()
	if err := cfg.ReadFile(p); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if cfg.Synthesis.Style != 3 || cfg.Synthesis.LineHeight != 80 {
		t.Errorf("synthesis = %+v", cfg.Synthesis)
	}
	if cfg.Store.Backend != StoreFile || cfg.Store.Dir != "/tmp/docs" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "c.toml", "[synthesis]\nslant = 3\n"},
		{"unknown yaml key", "c.yml", "synthesis:\n  slant: 3\n"},
		{"bad toml", "c.toml", "[synthesis\n"},
		{"unsupported extension", "c.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ReadFile(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		EnvModelURL: "http://gpu:8501",
		EnvRedis:    "redis:6379",
		EnvMongo:    "mongodb://mongo:27017",
		EnvDBName:   "letters",
		EnvAddr:     ":7000",
	}))
	if cfg.Model.URL != "http://gpu:8501" {
		t.Errorf("model url = %q", cfg.Model.URL)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.MongoURL != "mongodb://mongo:27017" || cfg.Store.Database != "letters" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bias", func(c *Config) { c.Synthesis.Bias = -0.1 }},
		{"color", func(c *Config) { c.Synthesis.Color = "<red>" }},
		{"width", func(c *Config) { c.Synthesis.Width = 0 }},
		{"scale", func(c *Config) { c.Synthesis.Scale = -1 }},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"store backend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"mongo url", func(c *Config) { c.Store.Backend = StoreMongo }},
		{"two models", func(c *Config) { c.Model.URL, c.Model.Replay = "http://x", "rec.json" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOpenCacheAndStore(t *testing.T) {
	ctx := context.Background()
	cfg := Default()

	c, err := cfg.OpenCache(ctx, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend opened %T", c)
	}

	cfg.Cache.Backend = CacheNone
	if c, _ := cfg.OpenCache(ctx, ""); c != cache.NewNullCache() {
		t.Errorf("none backend opened %T", c)
	}

	s, err := cfg.OpenStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("memory backend opened %T", s)
	}
}

func TestModelHandle(t *testing.T) {
	cfg := Default()
	if _, _, err := cfg.ModelHandle(nil); err == nil {
		t.Error("expected error without a model")
	}

	rec := writeFile(t, "rec.json", `{"hi": [[1, 0, 1]]}`)
	cfg.Model.Replay = rec
	h, name, err := cfg.ModelHandle(nil)
	if err != nil {
		t.Fatal(err)
	}
	if name != "replay:"+rec {
		t.Errorf("name = %q", name)
	}
	raws, err := h.Sample(context.Background(), []string{"hi"}, []float64{0.75}, []int{9})
	if err != nil || len(raws) != 1 || len(raws[0]) != 1 {
		t.Errorf("Sample = %v, %v", raws, err)
	}
}

func TestSynthesisApply(t *testing.T) {
	s := Default().Synthesis
	s.Bias, s.Color = 0.4, "teal"

	style := 2
	opts := pipeline.Options{Style: &style, StrokeWidth: 3}
	s.Apply(&opts)
	if *opts.Bias != 0.4 || opts.Color != "teal" {
		t.Errorf("defaults not applied: bias %v color %s", *opts.Bias, opts.Color)
	}
	if *opts.Style != 2 || opts.StrokeWidth != 3 {
		t.Errorf("explicit values overwritten: style %v width %v", *opts.Style, opts.StrokeWidth)
	}
	if opts.Width != 1000 || opts.LineHeight != 60 || opts.Scale != 1.5 {
		t.Errorf("canvas = %d %d %v", opts.Width, opts.LineHeight, opts.Scale)
	}
}
