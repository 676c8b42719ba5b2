package stamp

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// RunConfig is the optional on-disk run configuration
// (.appstamp.yaml at the project root). Explicit flag or
// environment settings override anything set here.
type RunConfig struct {
	// Root is the project root directory to search.
	Root string `yaml:"root"`

	// ProjectName names the iOS project subdirectory.
	ProjectName string `yaml:"project_name"`

	// Version pins the build version string.
	Version string `yaml:"version"`

	// Code pins the numeric build code.
	Code string `yaml:"code"`
}

// LoadRunConfig reads a YAML run configuration. A missing
// file yields a zero RunConfig without error; malformed
// YAML is an error.
func LoadRunConfig(path string) (RunConfig, error) {
	const errCtx = "loading run config"

	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if errors.Is(err, os.ErrNotExist) {
		return RunConfig{}, nil
	}

	if err != nil {
		return RunConfig{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	var rc RunConfig

	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return RunConfig{}, fmt.Errorf(
			"%s: decoding yaml: %w", errCtx, err,
		)
	}

	return rc, nil
}
