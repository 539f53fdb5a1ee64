// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package serverargs

import (
	"io"
	"testing"

	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/settings"
	"github.com/skiffworks/skiff/lib/wire"
)

// TestHandoffOverPipe runs the codec the way the binaries use it: the
// sender writes to one end of a pipe while the receiver decodes from
// the other, with a sealed store travelling locked through the pipe
// and unlocked only on the receiving side.
func TestHandoffOverPipe(t *testing.T) {
	keypair, err := secrets.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	defer keypair.Close()

	store, err := secrets.Seal(map[string][]byte{
		"transport.key": []byte("wire-material"),
	}, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	args, err := New(Params{
		Daemonize: true,
		Secrets:   store,
		Settings:  settings.New(map[string]string{"node.name": "pipe-test"}),
		ConfigDir: "/etc/skiff",
		LogsDir:   "/var/log/skiff",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer args.Close()

	readEnd, writeEnd := io.Pipe()
	writeResult := make(chan error, 1)
	go func() {
		err := args.WriteTo(wire.NewWriter(writeEnd))
		writeEnd.CloseWithError(err)
		writeResult <- err
	}()

	decoded, err := ReadArgs(wire.NewReader(readEnd))
	if err != nil {
		t.Fatalf("ReadArgs: %v", err)
	}
	defer decoded.Close()
	if err := <-writeResult; err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	sealed, ok := decoded.Secrets().(*secrets.SealedStore)
	if !ok {
		t.Fatalf("secrets decoded as %T, want *SealedStore", decoded.Secrets())
	}
	// The bundle crossed the pipe locked.
	if _, err := sealed.Get("transport.key"); err == nil {
		t.Error("sealed store readable before unlock")
	}
	if err := sealed.UnlockWithKey(keypair.PrivateKey); err != nil {
		t.Fatalf("UnlockWithKey: %v", err)
	}
	value, err := sealed.Get("transport.key")
	if err != nil {
		t.Fatalf("Get after unlock: %v", err)
	}
	if !value.Equal([]byte("wire-material")) {
		t.Error("secret entry corrupted in transit")
	}
}
