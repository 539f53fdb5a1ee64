// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"io"

	"github.com/skiffworks/skiff/lib/codec"
)

// Writer emits positional tokens to a byte stream. Each token is one
// CBOR data item appended through a single shared encoder, so nested
// writers (secrets stores, settings containers) interleave their
// tokens into the same stream without framing of their own.
//
// Writer performs no buffering beyond the underlying stream's; a
// failed write leaves the stream position undefined and the caller
// must not reuse it.
type Writer struct {
	encoder *codec.Encoder
}

// NewWriter returns a Writer that appends tokens to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: codec.NewEncoder(w)}
}

// WriteBool writes a boolean token.
func (w *Writer) WriteBool(value bool) error {
	return w.encoder.Encode(value)
}

// WriteString writes a string token.
func (w *Writer) WriteString(value string) error {
	return w.encoder.Encode(value)
}

// WriteOptionalString writes an optional-string token: a null token
// when value is nil, the string token otherwise. An absent value is
// distinct on the wire from a present empty string.
func (w *Writer) WriteOptionalString(value *string) error {
	return w.encoder.Encode(value)
}

// WriteBytes writes a byte-string token.
func (w *Writer) WriteBytes(value []byte) error {
	return w.encoder.Encode(value)
}

// Reader consumes positional tokens from a byte stream. All reads for
// one stream must go through a single Reader: the underlying decoder
// buffers, so handing the raw io.Reader to a second decoder would lose
// bytes. Nested decoders receive this Reader and consume exactly their
// own tokens.
//
// A truncated stream surfaces as io.EOF (truncation at a token
// boundary) or io.ErrUnexpectedEOF (truncation inside a token). A
// token of the wrong type surfaces as the decoder's type error. In
// both cases the stream position is undefined afterwards.
type Reader struct {
	decoder *codec.Decoder
}

// NewReader returns a Reader that consumes tokens from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{decoder: codec.NewDecoder(r)}
}

// ReadBool reads a boolean token.
func (r *Reader) ReadBool() (bool, error) {
	var value bool
	if err := r.decoder.Decode(&value); err != nil {
		return false, err
	}
	return value, nil
}

// ReadString reads a string token.
func (r *Reader) ReadString() (string, error) {
	var value string
	if err := r.decoder.Decode(&value); err != nil {
		return "", err
	}
	return value, nil
}

// ReadOptionalString reads an optional-string token. Returns nil for
// the null token, a non-nil pointer otherwise.
func (r *Reader) ReadOptionalString() (*string, error) {
	var value *string
	if err := r.decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// ReadBytes reads a byte-string token.
func (r *Reader) ReadBytes() ([]byte, error) {
	var value []byte
	if err := r.decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
