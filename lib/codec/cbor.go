// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. The same logical value always
// produces identical bytes, which the handoff protocol relies on for
// byte-level reproducibility of encoded bundles.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value, used to delay decoding or
// pre-encode output.
type RawMessage = cbor.RawMessage

// NewEncoder returns a CBOR encoder that writes to w using skiff's
// standard Core Deterministic Encoding configuration. Each Encode call
// appends exactly one data item to the stream.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder that reads from r using skiff's
// standard decoding configuration. Each Decode call consumes exactly
// one data item from the stream.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data. Used by skiff-launcher --dump-args to show
// an encoded bundle in readable form.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
