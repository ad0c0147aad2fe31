package main

import (
	"fmt"
	"time"

	"github.com/kbukum/typedflow/config"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/server"
	"github.com/kbukum/typedflow/store/bolt"
	"github.com/kbukum/typedflow/store/redis"
	"github.com/kbukum/typedflow/validation"
)

const serviceName = "typedflow"

// Store backends.
const (
	backendMemory = "memory"
	backendBolt   = "bolt"
	backendRedis  = "redis"
)

// AppConfig is the full configuration of the typedflow binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Store     StoreConfig          `yaml:"store" mapstructure:"store"`
	Pipeline  PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	Backend string        `yaml:"backend" mapstructure:"backend" validate:"oneof=memory bolt redis"`
	Path    string        `yaml:"path" mapstructure:"path" validate:"required_if=Backend bolt"`
	Bucket  string        `yaml:"bucket" mapstructure:"bucket"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Redis   redis.Config  `yaml:"redis" mapstructure:"redis"`
}

// PipelineConfig configures the text and numeric chains.
type PipelineConfig struct {
	Concurrency   int           `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1,lte=256"`
	StageTimeout  time.Duration `yaml:"stage_timeout" mapstructure:"stage_timeout" validate:"gte=0"`
	RetryAttempts int           `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"gte=1,lte=10"`
	MaxInputs     int           `yaml:"max_inputs" mapstructure:"max_inputs" validate:"gte=1"`
	Text          []string      `yaml:"text" mapstructure:"text" validate:"min=1"`
	Numeric       []string      `yaml:"numeric" mapstructure:"numeric" validate:"min=1"`
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()

	if c.Store.Backend == "" {
		c.Store.Backend = backendMemory
	}
	if c.Store.Path == "" {
		c.Store.Path = "typedflow.db"
	}
	if c.Store.Bucket == "" {
		c.Store.Bucket = bolt.DefaultBucket
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = time.Second
	}
	c.Store.Redis.ApplyDefaults()

	if c.Pipeline.Concurrency == 0 {
		c.Pipeline.Concurrency = 4
	}
	if c.Pipeline.StageTimeout == 0 {
		c.Pipeline.StageTimeout = 5 * time.Second
	}
	if c.Pipeline.RetryAttempts == 0 {
		c.Pipeline.RetryAttempts = 1
	}
	if c.Pipeline.MaxInputs == 0 {
		c.Pipeline.MaxInputs = 1000
	}
	if len(c.Pipeline.Text) == 0 {
		c.Pipeline.Text = []string{"upper"}
	}
	if len(c.Pipeline.Numeric) == 0 {
		c.Pipeline.Numeric = []string{"double"}
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := validation.Validate(c.Telemetry); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	if err := validation.Validate(c.Store); err != nil {
		return fmt.Errorf("config.store: %w", err)
	}
	if c.Store.Backend == backendRedis {
		if err := c.Store.Redis.Validate(); err != nil {
			return fmt.Errorf("config.store.redis: %w", err)
		}
	}
	if err := validation.Validate(c.Pipeline); err != nil {
		return fmt.Errorf("config.pipeline: %w", err)
	}
	if _, err := textStages(c.Pipeline.Text); err != nil {
		return fmt.Errorf("config.pipeline.text: %w", err)
	}
	if _, err := numericStages(c.Pipeline.Numeric); err != nil {
		return fmt.Errorf("config.pipeline.numeric: %w", err)
	}
	return nil
}

// loadConfig reads config.yml (or path), the environment and .env into an
// AppConfig. Defaults and validation are applied by bootstrap.NewApp.
func loadConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
