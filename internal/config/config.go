// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "quoll.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// Config holds the CLI's global configuration. Values come from an
// optional YAML config file and may be overridden by environment
// variables.
type Config struct {
	Debug      bool   `yaml:"debug"      envconfig:"QUOLL_DEBUG"`
	OutputJson bool   `yaml:"outputJson" envconfig:"QUOLL_OUTPUT_JSON"`
	Selector   string `yaml:"selector"   envconfig:"QUOLL_SELECTOR"`
}

// Selector names accepted in Config.Selector. Empty means the
// default fallback chain.
const (
	SelectorRandomImprove = "random-improve"
	SelectorLargestFirst  = "largest-first"
)

// LoadConfig reads the config file at the given path (empty path
// skips the file) and applies environment overrides.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, cfg)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	err := envconfig.Process("quoll", cfg)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	switch cfg.Selector {
	case "", SelectorRandomImprove, SelectorLargestFirst:
	default:
		return nil, fmt.Errorf(
			"unknown selector: %s",
			cfg.Selector,
		)
	}
	return cfg, nil
}
