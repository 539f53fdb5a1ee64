// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"fmt"
	"strings"

	"filippo.io/age"

	"github.com/skiffworks/skiff/lib/secret"
)

// Keypair holds an age x25519 keypair. The private key lives in a
// secret.Buffer (mmap-backed, locked against swap, excluded from core
// dumps); the public key is a plain string, safe to publish.
//
// The caller must Close the keypair when it is no longer needed.
type Keypair struct {
	// PrivateKey is the secret key in AGE-SECRET-KEY-1... format.
	// Never log it or pass it on a command line.
	PrivateKey *secret.Buffer

	// PublicKey is the corresponding public key in age1... format.
	PublicKey string
}

// Close releases the private key memory. Idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair generates a new age x25519 keypair for sealing
// secret bundles to a machine. The private key is moved into a
// secret.Buffer immediately.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("secrets: generating age keypair: %w", err)
	}

	// identity.String() is a heap string and will be GC'd eventually;
	// the mmap buffer is the durable copy.
	privateKey, err := secret.FromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("secrets: protecting private key: %w", err)
	}

	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// ParsePublicKey validates an age public key string and returns it in
// canonical form.
func ParsePublicKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	recipient, err := age.ParseX25519Recipient(trimmed)
	if err != nil {
		return "", fmt.Errorf("secrets: invalid public key: %w", err)
	}
	return recipient.String(), nil
}
