// Package config loads pruning options from configuration files.
//
// Options live either under the "emailPruneCss" key of a project's
// package.json or in .config/email-prune-css.{yaml,yml,json}. JSON files may
// carry comments.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/emailprune/prune"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONKey is the package.json field holding the options.
const PackageJSONKey = "emailPruneCss"

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// candidates are probed in order below the project root.
var candidates = []string{
	".config/email-prune-css.yaml",
	".config/email-prune-css.yml",
	".config/email-prune-css.json",
}

// Load reads options from an explicit config file. The format follows the
// extension: .json and .jsonc are JSON with comments, .yaml and .yml are YAML.
// A package.json is read through its emailPruneCss key.
func Load(path string) (prune.Options, error) {
	if filepath.Base(path) == "package.json" {
		opts, _, err := readPackageJSON(path)
		return opts, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied config path
	if err != nil {
		return prune.Options{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	value, err := decode(path, data)
	if err != nil {
		return prune.Options{}, err
	}

	opts, err := prune.OptionsFromValue(value)
	if err != nil {
		return prune.Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

// Discover looks for configuration below root and returns the options with
// the path they came from. Finding nothing is not an error: the default
// options and an empty path are returned.
func Discover(root string) (prune.Options, string, error) {
	if root == "" {
		return prune.Options{}, "", nil
	}

	pkgPath := filepath.Join(root, "package.json")
	opts, found, err := readPackageJSON(pkgPath)
	if err != nil {
		return prune.Options{}, "", err
	}
	if found {
		return opts, pkgPath, nil
	}

	for _, name := range candidates {
		path := filepath.Join(root, filepath.FromSlash(name))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		opts, err := Load(path)
		if err != nil {
			return prune.Options{}, "", err
		}
		return opts, path, nil
	}

	return prune.Options{}, "", nil
}

// readPackageJSON reports found=false when the file or the key is missing.
func readPackageJSON(path string) (prune.Options, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: workspace package.json
	if errors.Is(err, os.ErrNotExist) {
		return prune.Options{}, false, nil
	}
	if err != nil {
		return prune.Options{}, false, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return prune.Options{}, false, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return prune.Options{}, false, nil
	}

	opts, err := prune.OptionsFromValue(raw)
	if err != nil {
		return prune.Options{}, false, fmt.Errorf("package.json %s: %w", PackageJSONKey, err)
	}
	return opts, true, nil
}

func decode(path string, data []byte) (any, error) {
	var value any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return value, nil
}
