// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data
// such as credential values, passphrases, and encryption keys.
//
// [Buffer] allocates memory outside the Go heap via
// mmap(MAP_ANONYMOUS), locks it into physical RAM via mlock
// (preventing swap), and marks it excluded from core dumps via
// madvise(MADV_DONTDUMP). On Close, the memory is zeroed, unlocked,
// and unmapped. Because the region lives outside the Go heap, the
// garbage collector cannot copy or relocate it, so secret material
// does not persist after release.
//
// Secrets stores (lib/secrets) hand out entry values as Buffers, and
// the sealed store keeps decrypted bundles in them. [Zero] cleans up
// transient heap slices that briefly held secret bytes.
//
// Depends on golang.org/x/sys/unix. No skiff-internal dependencies.
package secret
