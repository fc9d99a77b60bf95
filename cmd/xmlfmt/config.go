package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Indent     string            `toml:"indent"`
	Namespaces map[string]string `toml:"namespaces"`
}

type config struct {
	indent     string
	namespaces map[string]string
}

func defaultConfig() config {
	return config{indent: "  "}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if meta.IsDefined("indent") {
		cfg.indent = raw.Indent
	}
	if meta.IsDefined("namespaces") {
		cfg.namespaces = raw.Namespaces
	}
	return cfg, nil
}
