// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"
	"sort"
	"strings"
)

// Settings is an immutable flat key→value container of node
// configuration. Keys are dot-separated paths ("cluster.name",
// "transport.port") produced by flattening the configuration file;
// values are their string forms.
//
// Settings serializes itself onto the handoff stream with WriteTo and
// is reconstructed by ReadSettings — the two are bit-exact inverses
// and consume exactly one token. The args codec treats the container
// as opaque and only delegates to this contract.
type Settings struct {
	entries map[string]string
}

// Empty returns the settings container with no entries.
func Empty() *Settings {
	return &Settings{entries: map[string]string{}}
}

// New builds a container from the given entries. The map is copied;
// later mutation of the argument does not affect the container.
func New(entries map[string]string) *Settings {
	copied := make(map[string]string, len(entries))
	for key, value := range entries {
		copied[key] = value
	}
	return &Settings{entries: copied}
}

// Get returns the value for key and whether it is present.
func (s *Settings) Get(key string) (string, bool) {
	value, ok := s.entries[key]
	return value, ok
}

// GetDefault returns the value for key, or fallback when absent.
func (s *Settings) GetDefault(key, fallback string) string {
	if value, ok := s.entries[key]; ok {
		return value
	}
	return fallback
}

// Keys returns all keys in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (s *Settings) Len() int {
	return len(s.entries)
}

// FilterPrefix returns a new container holding only the entries whose
// keys start with prefix, with the prefix stripped. A trailing dot in
// prefix is optional.
func (s *Settings) FilterPrefix(prefix string) *Settings {
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}

	filtered := map[string]string{}
	for key, value := range s.entries {
		if strings.HasPrefix(key, prefix) {
			filtered[strings.TrimPrefix(key, prefix)] = value
		}
	}
	return &Settings{entries: filtered}
}

// Equal reports whether two containers hold identical entries.
func (s *Settings) Equal(other *Settings) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for key, value := range s.entries {
		if otherValue, ok := other.entries[key]; !ok || otherValue != value {
			return false
		}
	}
	return true
}

// String returns a one-line summary for logging. Values are not
// included: settings may carry things like node names worth logging
// but the container cannot know, so only keys appear.
func (s *Settings) String() string {
	return fmt.Sprintf("settings(%d entries: %s)", len(s.entries), strings.Join(s.Keys(), ", "))
}
