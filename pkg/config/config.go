/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads the replay configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/numaproj/indicator/pkg/indicator"
	"github.com/numaproj/indicator/pkg/replay"
	"github.com/numaproj/indicator/pkg/window"
	"github.com/numaproj/indicator/pkg/window/tumbling"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration, e.g. INDICATOR_FILTER.
const EnvPrefix = "INDICATOR"

// Config is the configuration of a replay.
type Config struct {
	// Offset is the default time zone of the windows, either a fixed offset like +08:00 or a location name.
	Offset string `json:"offset"`
	// Filter is an expression over price, ts, unix and symbol, ticks not matching it are dropped.
	Filter string `json:"filter"`
	// OnlyNewWindow only emits the first sample of every window.
	OnlyNewWindow bool `json:"onlyNewWindow"`
	// BatchSize is the number of samples written to the sinks at once.
	BatchSize int `json:"batchSize"`
	// SQLite is the path of the database the samples are written to, disabled when empty.
	SQLite string `json:"sqlite"`
	// MetricsAddr is the address of the metrics server, disabled when empty.
	MetricsAddr string             `json:"metricsAddr"`
	Indicators  []*IndicatorConfig `json:"indicators"`
}

// IndicatorConfig is the configuration of one indicator.
type IndicatorConfig struct {
	// Name defaults to kind-period.
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Period string `json:"period"`
	// Offset overrides the default time zone.
	Offset string `json:"offset"`
	// Length is the number of windows kept, and the span of the averages.
	Length int `json:"length"`
	// Inline is the number of windows allocated upfront.
	Inline int `json:"inline"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("offset", "UTC")
	v.SetDefault("filter", "")
	v.SetDefault("onlyNewWindow", false)
	v.SetDefault("batchSize", 128)
	v.SetDefault("sqlite", "")
	v.SetDefault("metricsAddr", "")
}

// LoadConfig reads the YAML configuration file at path, values can be overridden by INDICATOR_ prefixed environment
// variables. An empty path only loads the defaults and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}
	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration file. %w", err)
	}
	return conf, nil
}

// Validate checks the configuration and fills the indicator names.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("invalid batchSize %d", c.BatchSize)
	}
	loc, err := window.ParseOffset(c.Offset)
	if err != nil {
		return err
	}
	if len(c.Indicators) == 0 {
		return fmt.Errorf("no indicator configured")
	}
	names := make(map[string]struct{}, len(c.Indicators))
	for i, ic := range c.Indicators {
		if ic == nil {
			return fmt.Errorf("indicator %d is empty", i)
		}
		if _, err := indicator.ParseKind(ic.Kind); err != nil {
			return fmt.Errorf("indicator %d: %w", i, err)
		}
		if ic.Length <= 0 {
			return fmt.Errorf("indicator %d: invalid length %d", i, ic.Length)
		}
		if ic.Inline < 0 {
			return fmt.Errorf("indicator %d: invalid inline %d", i, ic.Inline)
		}
		if _, err := ic.period(loc); err != nil {
			return fmt.Errorf("indicator %d: %w", i, err)
		}
		if ic.Name == "" {
			ic.Name = ic.Kind + "-" + ic.Period
		}
		if _, ok := names[ic.Name]; ok {
			return fmt.Errorf("duplicate indicator name %q", ic.Name)
		}
		names[ic.Name] = struct{}{}
	}
	return nil
}

func (ic *IndicatorConfig) period(loc *time.Location) (window.Period, error) {
	if ic.Offset != "" {
		l, err := window.ParseOffset(ic.Offset)
		if err != nil {
			return window.Period{}, err
		}
		loc = l
	}
	return window.ParsePeriod(ic.Period, loc)
}

// Jobs builds the replay jobs of a validated configuration.
func (c *Config) Jobs(logger *zap.SugaredLogger) ([]replay.Job, error) {
	loc, err := window.ParseOffset(c.Offset)
	if err != nil {
		return nil, err
	}
	jobs := make([]replay.Job, 0, len(c.Indicators))
	for _, ic := range c.Indicators {
		period, err := ic.period(loc)
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ic.Name, err)
		}
		kind, err := indicator.ParseKind(ic.Kind)
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ic.Name, err)
		}
		opts := []tumbling.Option{tumbling.WithName(ic.Name)}
		if ic.Inline > 0 {
			opts = append(opts, tumbling.WithInline(ic.Inline))
		}
		if logger != nil {
			opts = append(opts, tumbling.WithLogger(logger.With("indicator", ic.Name)))
		}
		ind, err := indicator.New(kind, period, ic.Length, opts...)
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ic.Name, err)
		}
		jobs = append(jobs, replay.Job{Name: ic.Name, Period: ic.Period, Indicator: ind})
	}
	return jobs, nil
}
