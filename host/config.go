package host

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/labautomata/go-sealer/sealer"
)

// Config is the YAML configuration the host boundary owns: which port the
// sealer is attached to, and the sealing parameters to apply.
type Config struct {
	// Port is the platform serial port identifier, e.g. "COM3".
	Port string `yaml:"port"`

	Parameters ParametersConfig `yaml:"parameters"`
}

// ParametersConfig mirrors sealer.Parameters for YAML decoding. Fields are
// pointers so that absence falls back to the driver defaults while explicit
// zero values (temperature 0 °C, seal time 0.0 s) remain configurable.
type ParametersConfig struct {
	Temperature *int     `yaml:"temperature"`
	SealTime    *float64 `yaml:"seal_time"`
	SealForce   *int     `yaml:"seal_force"`
	SealLength  *int     `yaml:"seal_length"`
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("host: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration without touching any device.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("host: config is missing the serial port identifier")
	}

	return c.SealingParameters().Validate()
}

// SealingParameters converts the configured parameters to driver parameters,
// substituting driver defaults for absent fields.
func (c *Config) SealingParameters() sealer.Parameters {
	p := sealer.DefaultParameters()

	if c.Parameters.Temperature != nil {
		p.Temperature = *c.Parameters.Temperature
	}
	if c.Parameters.SealTime != nil {
		p.SealTime = *c.Parameters.SealTime
	}
	if c.Parameters.SealForce != nil {
		p.SealForce = *c.Parameters.SealForce
	}
	if c.Parameters.SealLength != nil {
		p.SealLength = *c.Parameters.SealLength
	}

	return p
}

// NewDriver builds a connected-ready driver from the configuration.
func (c *Config) NewDriver(opts ...sealer.ConnOption) (*sealer.Driver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	connCfg, err := sealer.NewConnectionConfig(c.Port, opts...)
	if err != nil {
		return nil, err
	}

	drv, err := sealer.NewDriver(connCfg)
	if err != nil {
		return nil, err
	}
	drv.SetParameters(c.SealingParameters())

	return drv, nil
}
