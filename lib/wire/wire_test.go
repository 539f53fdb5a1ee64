// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBoolRoundtrip(t *testing.T) {
	var stream bytes.Buffer
	writer := NewWriter(&stream)

	if err := writer.WriteBool(true); err != nil {
		t.Fatalf("WriteBool(true): %v", err)
	}
	if err := writer.WriteBool(false); err != nil {
		t.Fatalf("WriteBool(false): %v", err)
	}

	reader := NewReader(&stream)
	first, err := reader.ReadBool()
	if err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	second, err := reader.ReadBool()
	if err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if !first || second {
		t.Errorf("got (%v, %v), want (true, false)", first, second)
	}
}

func TestStringRoundtrip(t *testing.T) {
	values := []string{"", "/etc/skiff", "päth with ünicode", "a\x00b"}

	var stream bytes.Buffer
	writer := NewWriter(&stream)
	for _, value := range values {
		if err := writer.WriteString(value); err != nil {
			t.Fatalf("WriteString(%q): %v", value, err)
		}
	}

	reader := NewReader(&stream)
	for _, want := range values {
		got, err := reader.ReadString()
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestOptionalStringAbsentVersusEmpty(t *testing.T) {
	empty := ""
	present := "/var/run/skiff.pid"

	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteOptionalString(nil); err != nil {
		t.Fatalf("WriteOptionalString(nil): %v", err)
	}
	if err := writer.WriteOptionalString(&empty); err != nil {
		t.Fatalf("WriteOptionalString(empty): %v", err)
	}
	if err := writer.WriteOptionalString(&present); err != nil {
		t.Fatalf("WriteOptionalString(present): %v", err)
	}

	reader := NewReader(&stream)

	absent, err := reader.ReadOptionalString()
	if err != nil {
		t.Fatalf("ReadOptionalString: %v", err)
	}
	if absent != nil {
		t.Errorf("absent token decoded to %q, want nil", *absent)
	}

	gotEmpty, err := reader.ReadOptionalString()
	if err != nil {
		t.Fatalf("ReadOptionalString: %v", err)
	}
	if gotEmpty == nil || *gotEmpty != "" {
		t.Errorf("empty token decoded to %v, want present empty string", gotEmpty)
	}

	gotPresent, err := reader.ReadOptionalString()
	if err != nil {
		t.Fatalf("ReadOptionalString: %v", err)
	}
	if gotPresent == nil || *gotPresent != present {
		t.Errorf("present token decoded to %v, want %q", gotPresent, present)
	}
}

func TestBytesRoundtrip(t *testing.T) {
	payload := []byte{0x00, 0xff, 0x42, 0x13, 0x37}

	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteBytes(payload); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}

	reader := NewReader(&stream)
	got, err := reader.ReadBytes()
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %x, want %x", got, payload)
	}
}

func TestSharedReaderThreading(t *testing.T) {
	// Interleave token types on one stream the way the args codec
	// does: a nested payload's tokens sit between outer tokens and
	// must be consumed exactly, leaving the outer tokens intact.
	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteBool(true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := writer.WriteBytes([]byte("nested payload")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if err := writer.WriteString("/var/log/skiff"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	reader := NewReader(&stream)
	if _, err := reader.ReadBool(); err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if _, err := reader.ReadBytes(); err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	tail, err := reader.ReadString()
	if err != nil {
		t.Fatalf("ReadString after nested payload: %v", err)
	}
	if tail != "/var/log/skiff" {
		t.Errorf("trailing token = %q, want /var/log/skiff", tail)
	}
}

func TestReadPastEnd(t *testing.T) {
	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteBool(true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}

	reader := NewReader(&stream)
	if _, err := reader.ReadBool(); err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if _, err := reader.ReadBool(); !errors.Is(err, io.EOF) {
		t.Errorf("read past end returned %v, want io.EOF", err)
	}
}

func TestTruncatedToken(t *testing.T) {
	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteString("a long enough string to truncate"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	truncated := stream.Bytes()[:stream.Len()/2]
	reader := NewReader(bytes.NewReader(truncated))
	if _, err := reader.ReadString(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated read returned %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestTypeMismatch(t *testing.T) {
	var stream bytes.Buffer
	writer := NewWriter(&stream)
	if err := writer.WriteString("not a bool"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	reader := NewReader(&stream)
	if _, err := reader.ReadBool(); err == nil {
		t.Error("ReadBool on a string token succeeded, want type error")
	}
}
