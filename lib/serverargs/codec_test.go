// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package serverargs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/settings"
	"github.com/skiffworks/skiff/lib/wire"
)

// encodeDecode runs a bundle through one encode/decode cycle.
func encodeDecode(t *testing.T, args *Args) *Args {
	t.Helper()

	var stream bytes.Buffer
	if err := args.WriteTo(wire.NewWriter(&stream)); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	decoded, err := ReadArgs(wire.NewReader(&stream))
	if err != nil {
		t.Fatalf("ReadArgs: %v", err)
	}
	return decoded
}

func TestRoundtripFullBundle(t *testing.T) {
	store, err := secrets.NewMemoryStore(map[string][]byte{
		"api.token": []byte("tok-123"),
	})
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}

	pidFile := "/var/run/skiff.pid"
	args, err := New(Params{
		Daemonize: true,
		Quiet:     false,
		PIDFile:   &pidFile,
		Secrets:   store,
		Settings: settings.New(map[string]string{
			"cluster.name": "production-west",
			"node.name":    "node-7",
		}),
		ConfigDir: "/etc/skiff",
		LogsDir:   "/var/log/skiff",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer args.Close()

	decoded := encodeDecode(t, args)
	defer decoded.Close()

	if decoded.Daemonize() != args.Daemonize() || decoded.Quiet() != args.Quiet() {
		t.Error("boolean flags changed across roundtrip")
	}
	if path, ok := decoded.PIDFile(); !ok || path != pidFile {
		t.Errorf("PIDFile = (%q, %v), want (%q, true)", path, ok, pidFile)
	}
	if decoded.ConfigDir() != "/etc/skiff" || decoded.LogsDir() != "/var/log/skiff" {
		t.Error("directories changed across roundtrip")
	}
	if !decoded.Settings().Equal(args.Settings()) {
		t.Error("settings changed across roundtrip")
	}

	// Secrets variant identity and payload both survive.
	if decoded.Secrets().TypeID() != secrets.TypeIDMemory {
		t.Errorf("secrets variant = %q, want %q", decoded.Secrets().TypeID(), secrets.TypeIDMemory)
	}
	if !bytes.Equal(decoded.Secrets().Digest(), args.Secrets().Digest()) {
		t.Error("secrets payload digest changed across roundtrip")
	}
	value, err := decoded.Secrets().Get("api.token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !value.Equal([]byte("tok-123")) {
		t.Error("secret entry changed across roundtrip")
	}
}

func TestRoundtripEmptyVariantScenario(t *testing.T) {
	// encode {daemonize=false, quiet=true, pidFile=absent,
	// secrets=empty, settings=empty, configDir=/etc/svc,
	// logsDir=/var/log/svc}, decode, expect an identical bundle.
	args, err := New(Params{
		Daemonize: false,
		Quiet:     true,
		Secrets:   secrets.NewEmptyStore(),
		Settings:  settings.Empty(),
		ConfigDir: "/etc/svc",
		LogsDir:   "/var/log/svc",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	decoded := encodeDecode(t, args)

	if decoded.Daemonize() || !decoded.Quiet() {
		t.Errorf("flags = (%v, %v), want (false, true)", decoded.Daemonize(), decoded.Quiet())
	}
	if _, ok := decoded.PIDFile(); ok {
		t.Error("absent pid file decoded as present")
	}
	if _, isEmpty := decoded.Secrets().(secrets.EmptyStore); !isEmpty {
		t.Errorf("secrets resolved to %T, want secrets.EmptyStore", decoded.Secrets())
	}
	if decoded.Settings().Len() != 0 {
		t.Errorf("settings decoded with %d entries, want 0", decoded.Settings().Len())
	}
	if decoded.ConfigDir() != "/etc/svc" || decoded.LogsDir() != "/var/log/svc" {
		t.Error("directories mismatch")
	}
}

func TestRoundtripPIDFilePresenceScenario(t *testing.T) {
	pidFile := "/var/run/svc.pid"
	params := Params{
		Secrets:   secrets.NewEmptyStore(),
		Settings:  settings.Empty(),
		ConfigDir: "/etc/svc",
		LogsDir:   "/var/log/svc",
		PIDFile:   &pidFile,
	}

	args, err := New(params)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	decoded := encodeDecode(t, args)

	if path, ok := decoded.PIDFile(); !ok || path != "/var/run/svc.pid" {
		t.Errorf("PIDFile = (%q, %v), want exact original string", path, ok)
	}
}

func TestDecodeUnknownSecretsVariant(t *testing.T) {
	var stream bytes.Buffer
	writer := wire.NewWriter(&stream)
	for _, write := range []func() error{
		func() error { return writer.WriteBool(false) },
		func() error { return writer.WriteBool(false) },
		func() error { return writer.WriteOptionalString(nil) },
		func() error { return writer.WriteString("org.example.KeystoreSecrets") },
	} {
		if err := write(); err != nil {
			t.Fatalf("building stream: %v", err)
		}
	}

	args, err := ReadArgs(wire.NewReader(&stream))
	if args != nil {
		t.Error("ReadArgs returned a partial bundle alongside an error")
	}

	var invalid *secrets.InvalidVariantError
	if !errors.As(err, &invalid) {
		t.Fatalf("error %v is not InvalidVariantError", err)
	}
	if invalid.TypeID != "org.example.KeystoreSecrets" {
		t.Errorf("TypeID = %q, want the offending identifier", invalid.TypeID)
	}
}

func TestDecodeTruncatedAtEveryFieldBoundary(t *testing.T) {
	store, err := secrets.NewMemoryStore(map[string][]byte{"k": []byte("v")})
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	pidFile := "/var/run/skiff.pid"
	args, err := New(Params{
		PIDFile:   &pidFile,
		Secrets:   store,
		Settings:  settings.New(map[string]string{"node.name": "n1"}),
		ConfigDir: "/etc/skiff",
		LogsDir:   "/var/log/skiff",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer args.Close()

	// Re-encode field by field, recording the stream length after
	// each field. Deterministic encoding makes the incremental bytes
	// identical to one WriteTo pass.
	var stream bytes.Buffer
	writer := wire.NewWriter(&stream)
	var boundaries []int
	record := func(name string, write func() error) {
		if err := write(); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		boundaries = append(boundaries, stream.Len())
	}
	record("daemonize", func() error { return writer.WriteBool(args.Daemonize()) })
	record("quiet", func() error { return writer.WriteBool(args.Quiet()) })
	record("pidFile", func() error { return writer.WriteOptionalString(&pidFile) })
	record("secretsTypeID", func() error { return writer.WriteString(args.Secrets().TypeID()) })
	record("secretsPayload", func() error { return args.Secrets().WriteTo(writer) })
	record("settings", func() error { return args.Settings().WriteTo(writer) })
	record("configDir", func() error { return writer.WriteString(args.ConfigDir()) })

	full := stream.Bytes()

	// Sanity check: the incremental encoding matches WriteTo.
	var oneShot bytes.Buffer
	if err := args.WriteTo(wire.NewWriter(&oneShot)); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !bytes.HasPrefix(oneShot.Bytes(), full) {
		t.Fatal("incremental encoding diverged from WriteTo")
	}

	// Truncating at any field boundary (all of which drop at least
	// the trailing logsDir) must fail decode, never substitute
	// defaults.
	for index, boundary := range boundaries {
		truncated := full[:boundary]
		if decoded, err := ReadArgs(wire.NewReader(bytes.NewReader(truncated))); err == nil {
			t.Errorf("decode of stream truncated after field %d succeeded: %+v", index, decoded)
		}
	}
}

func TestDecodeCorruptSettingsLeavesNoBundle(t *testing.T) {
	var stream bytes.Buffer
	writer := wire.NewWriter(&stream)
	if err := writer.WriteBool(false); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := writer.WriteBool(true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := writer.WriteOptionalString(nil); err != nil {
		t.Fatalf("WriteOptionalString: %v", err)
	}
	if err := writer.WriteString(secrets.TypeIDEmpty); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	// Settings slot holds a byte-string token that is not valid zstd.
	if err := writer.WriteBytes([]byte("garbage")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}

	args, err := ReadArgs(wire.NewReader(&stream))
	if err == nil {
		t.Fatal("ReadArgs on corrupt settings payload succeeded")
	}
	if args != nil {
		t.Error("ReadArgs returned a partial bundle alongside an error")
	}
}
