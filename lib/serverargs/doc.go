// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package serverargs defines the startup-argument bundle handed from
// skiff-launcher to skiff-server, and its wire codec.
//
// [Args] carries everything the server needs to come up: daemonize
// and quiet flags, an optional pid file path, the secure settings
// store, the node settings container, and the config and logs
// directories. The bundle is immutable after construction and
// validated at the constructor ([New]): a present pid file path must
// be absolute, and the secrets store and settings container must be
// present.
//
// The wire format is strictly positional over lib/wire tokens:
//
//	[bool daemonize][bool quiet]
//	[optional-string pidFile]
//	[string secretsTypeID][secrets payload]
//	[settings payload]
//	[string configDir][string logsDir]
//
// The secrets and settings payloads are self-described: the codec
// delegates to the store's and container's own writers and readers,
// which consume exactly their own tokens from the shared stream. The
// codec does not enumerate the store variants — resolution goes
// through the lib/secrets registry, and an unknown identifier fails
// decoding with secrets.InvalidVariantError.
//
// Encode and decode are pure, synchronous transformations with no
// local recovery: every failure aborts and propagates, there is no
// partial bundle, and a stream that failed mid-read must not be
// reused.
package serverargs
