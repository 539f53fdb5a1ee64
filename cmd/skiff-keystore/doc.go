// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Skiff-keystore manages sealed secrets bundles for the launcher:
// "keygen" creates a machine age keypair, "create" seals KEY=VALUE
// entries from stdin into a bundle file, and "inspect" lists the
// entry names of an existing bundle after unlocking it. Bundles are
// handed to skiff-launcher via --secrets-bundle and travel to the
// server still encrypted.
package main
