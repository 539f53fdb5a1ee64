// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Skiff-launcher is the bootstrap process. It assembles the server's
// startup-argument bundle — flags, node settings loaded from the
// config directory, and the secrets store — then spawns skiff-server
// and hands the bundle over by piping its wire encoding to the
// server's stdin. The launcher never opens the secrets: a sealed
// bundle travels through the pipe still encrypted and is unlocked on
// the server side.
package main
