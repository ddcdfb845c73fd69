package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a flat key/value YAML file, applies schema defaults, and
// decodes the result into a Config. Validation is a separate step so that
// field errors can accumulate instead of failing on the first decode.
// The returned unknown slice lists unrecognized keys for the caller to
// warn about.
func LoadFile(path string) (*Config, []string, error) {
	// #nosec G304 -- path comes from the operator's --config flag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML bytes the same way LoadFile does.
func Parse(data []byte) (*Config, []string, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	resolved, unknown := Resolve(raw)

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &cfg,
		// Port values may be written bare (8081) or quoted ("8081");
		// both must land in the string fields for range validation.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(resolved); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, unknown, nil
}
