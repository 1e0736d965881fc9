package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// config is the optional YAML configuration of the demo.
type config struct {
	// Tick is the interval of the elapsed-time ticker.
	Tick duration `yaml:"tick"`
	// Items seeds the todo list.
	Items []configItem `yaml:"items"`
}

type configItem struct {
	Text string `yaml:"text"`
	Done bool   `yaml:"done"`
}

func defaultConfig() config {
	return config{Tick: duration(time.Second)}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Tick <= 0 {
		cfg.Tick = duration(time.Second)
	}
	return cfg, nil
}

// duration supports "1s"-style strings in YAML.
type duration time.Duration

func (d *duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}
