package flock

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config_schema.json
var configSchema string

const configSchemaURL = "config_schema.json"

// ErrUnsupportedConfigFormat is returned by LoadConfig for an unknown file extension.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

// Params holds the radius and the force scale of each steering rule.
type Params struct {
	AlignmentRadius  float64 `json:"alignmentRadius" yaml:"alignmentRadius" toml:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius" yaml:"cohesionRadius" toml:"cohesionRadius"`
	SeparationRadius float64 `json:"separationRadius" yaml:"separationRadius" toml:"separationRadius"`

	AlignmentForce  float64 `json:"alignmentForce" yaml:"alignmentForce" toml:"alignmentForce"`
	CohesionForce   float64 `json:"cohesionForce" yaml:"cohesionForce" toml:"cohesionForce"`
	SeparationForce float64 `json:"separationForce" yaml:"separationForce" toml:"separationForce"`
}

// DefaultParams returns the classic tuning: alignment looks further (50) than
// cohesion and separation (30), and separation pushes hardest.
func DefaultParams() Params {
	return Params{
		AlignmentRadius:  50,
		CohesionRadius:   30,
		SeparationRadius: 30,
		AlignmentForce:   0.02,
		CohesionForce:    0.03,
		SeparationForce:  0.08,
	}
}

// Config describes a whole simulation run.
type Config struct {
	// World Dimensions, the window size in the interactive driver
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight" toml:"worldHeight"`

	// Population
	FlockSize int    `json:"flockSize" yaml:"flockSize" toml:"flockSize"`
	Seed      uint64 `json:"seed" yaml:"seed" toml:"seed"` // 0 picks a random seed

	Steering Params `json:"steering" yaml:"steering" toml:"steering"`

	// Workers > 1 runs the steering phase on that many goroutines
	Workers int `json:"workers" yaml:"workers" toml:"workers"`

	DisplayPartition bool   `json:"displayPartition" yaml:"displayPartition" toml:"displayPartition"`
	LogLevel         string `json:"logLevel" yaml:"logLevel" toml:"logLevel"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:  800,
		WorldHeight: 600,
		FlockSize:   250,
		Steering:    DefaultParams(),
		Workers:     1,
		LogLevel:    "info",
	}
}

// LoadConfig reads a JSON, YAML or TOML file, chosen by extension, on top of
// DefaultConfig and validates the result against the embedded JSON schema.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var compileConfigSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(configSchemaURL, configSchema)
})

// Validate checks the config against the embedded JSON schema.
func (c *Config) Validate() error {
	sch, err := compileConfigSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	// the schema validates generic JSON values, not Go structs
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
