// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Skiff-server is the long-running node process. It reads its
// startup-argument bundle from stdin (written by skiff-launcher),
// configures logging and the pid file from it, unlocks a sealed
// secrets bundle with the machine key, and runs until terminated.
package main
