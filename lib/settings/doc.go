// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings provides the node settings container carried
// inside a startup-argument bundle.
//
// [Settings] is a flat, immutable map of dot-separated keys to string
// values, produced on the launcher side by flattening a YAML or JSONC
// configuration file ([LoadFile]) and consumed on the server side
// through lookup and prefix filtering. The args codec treats it as
// opaque: the container owns its wire representation
// ([Settings.WriteTo] / [ReadSettings], one zstd-compressed CBOR
// token), and the codec only delegates.
//
// Validation of settings content is deliberately out of scope — the
// container round-trips whatever the configuration file said.
package settings
