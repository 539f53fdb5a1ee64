// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/skiffworks/skiff/lib/codec"
	"github.com/skiffworks/skiff/lib/wire"
)

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use
// in EncodeAll/DecodeAll mode.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("settings: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("settings: zstd decoder initialization failed: " + err.Error())
	}
}

// WriteTo emits the container as one byte-string token holding the
// zstd-compressed deterministic CBOR encoding of the entry map.
// Settings are text-like (repeated key prefixes, path values), so
// zstd pays for itself on realistic node configurations.
func (s *Settings) WriteTo(w *wire.Writer) error {
	plain, err := codec.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	return w.WriteBytes(zstdEncoder.EncodeAll(plain, nil))
}

// ReadSettings consumes one settings token from the stream and
// reconstructs the container. Bit-exact inverse of WriteTo.
func ReadSettings(r *wire.Reader) (*Settings, error) {
	compressed, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}

	plain, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing settings: %w", err)
	}

	var entries map[string]string
	if err := codec.Unmarshal(plain, &entries); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return &Settings{entries: entries}, nil
}
