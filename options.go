package morexml

import (
	"cmp"
	"fmt"
)

const (
	defaultMaxDepth     = 256
	defaultMaxAttrs     = 256
	defaultMaxTokenSize = 4 << 20
)

type parseConfig struct {
	maxDepth     int
	maxAttrs     int
	maxTokenSize int
}

// ParseOption configures parsing limits. Zero values select the defaults.
type ParseOption func(*parseConfig)

// MaxDepth limits element nesting while parsing.
func MaxDepth(n int) ParseOption {
	return func(cfg *parseConfig) { cfg.maxDepth = n }
}

// MaxAttrs limits the attribute count per element while parsing.
func MaxAttrs(n int) ParseOption {
	return func(cfg *parseConfig) { cfg.maxAttrs = n }
}

// MaxTokenSize limits the byte size of attribute values and character data
// chunks while parsing.
func MaxTokenSize(n int) ParseOption {
	return func(cfg *parseConfig) { cfg.maxTokenSize = n }
}

func resolveParseConfig(opts []ParseOption) (parseConfig, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxDepth < 0 {
		return parseConfig{}, fmt.Errorf("xml max depth must be >= 0")
	}
	if cfg.maxAttrs < 0 {
		return parseConfig{}, fmt.Errorf("xml max attrs must be >= 0")
	}
	if cfg.maxTokenSize < 0 {
		return parseConfig{}, fmt.Errorf("xml max token size must be >= 0")
	}
	return parseConfig{
		maxDepth:     cmp.Or(cfg.maxDepth, defaultMaxDepth),
		maxAttrs:     cmp.Or(cfg.maxAttrs, defaultMaxAttrs),
		maxTokenSize: cmp.Or(cfg.maxTokenSize, defaultMaxTokenSize),
	}, nil
}
