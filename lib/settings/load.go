// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration file and flattens it into a settings
// container. The format is chosen by extension: .yaml/.yml via YAML,
// .json/.jsonc via JSON (comments and trailing commas allowed).
//
// Nested maps flatten to dot-separated keys, list elements to
// zero-based numeric segments:
//
//	cluster:
//	  name: alpha
//	  seeds: [a, b]
//
// becomes cluster.name=alpha, cluster.seeds.0=a, cluster.seeds.1=b.
// Scalars are stored in their string form.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings format %q (want .yaml, .yml, .json, or .jsonc)", extension)
	}

	entries := map[string]string{}
	for key, value := range tree {
		flatten(key, value, entries)
	}
	return &Settings{entries: entries}, nil
}

// flatten appends value under prefix into entries, recursing through
// maps and lists.
func flatten(prefix string, value any, entries map[string]string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			flatten(prefix+"."+key, nested, entries)
		}
	case map[any]any:
		// yaml.v3 produces map[string]any for string keys, but mixed
		// keys (quoted numbers, booleans) fall back to this form.
		for key, nested := range typed {
			flatten(prefix+"."+fmt.Sprint(key), nested, entries)
		}
	case []any:
		for index, element := range typed {
			flatten(prefix+"."+strconv.Itoa(index), element, entries)
		}
	case nil:
		entries[prefix] = ""
	case string:
		entries[prefix] = typed
	case bool:
		entries[prefix] = strconv.FormatBool(typed)
	case float64:
		// encoding/json numbers arrive as float64.
		entries[prefix] = strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		entries[prefix] = fmt.Sprint(typed)
	}
}
