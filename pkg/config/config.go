// Package config loads the YAML configuration of the NextBus server and
// validates it using struct tags.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/weininghu1012/NextBus/pkg/translink"
)

type TranslinkConfig struct {
	BaseURL          string `yaml:"baseURL" validate:"required,url"`
	UserAgent        string `yaml:"userAgent"`
	ConnectTimeoutMS int    `yaml:"connectTimeoutMS" validate:"gt=0"`
	ReadTimeoutMS    int    `yaml:"readTimeoutMS" validate:"gt=0"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// ConnectivityConfig decides how the server checks for a data connection
// before contacting Translink. An empty ProbeAddress disables the check.
type ConnectivityConfig struct {
	ProbeAddress   string `yaml:"probeAddress" validate:"omitempty,hostname_port"`
	ProbeTimeoutMS int    `yaml:"probeTimeoutMS" validate:"gt=0"`
}

type AppConfig struct {
	Translink    TranslinkConfig    `yaml:"translink"`
	Server       ServerConfig       `yaml:"server"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
}

func Default() AppConfig {
	return AppConfig{
		Translink: TranslinkConfig{
			BaseURL:          translink.DefaultBaseURL,
			ConnectTimeoutMS: 3000,
			ReadTimeoutMS:    3000,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Connectivity: ConnectivityConfig{
			ProbeTimeoutMS: 1000,
		},
	}
}

// Load reads the configuration at path on top of the defaults.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, errors.Wrap(err, "failed to read config")
	}

	return Parse(data)
}

func Parse(data []byte) (AppConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

func (c TranslinkConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMS) * time.Millisecond
}

func (c TranslinkConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

func (c ConnectivityConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMS) * time.Millisecond
}
