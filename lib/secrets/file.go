// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"errors"
	"fmt"
	"os"
)

// LoadSealedFile reads an age ciphertext bundle written by SaveFile
// (or the skiff-keystore tool) and returns the locked store.
func LoadSealedFile(path string) (*SealedStore, error) {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("secrets: reading sealed bundle: %w", err)
	}
	if len(ciphertext) == 0 {
		return nil, errors.New("secrets: sealed bundle file is empty")
	}
	return &SealedStore{ciphertext: ciphertext}, nil
}

// SaveFile writes the ciphertext to path with owner-only permissions.
// The ciphertext is safe at rest without further protection, but the
// tight mode keeps the bundle from being copied around casually.
func (s *SealedStore) SaveFile(path string) error {
	if err := os.WriteFile(path, s.ciphertext, 0o600); err != nil {
		return fmt.Errorf("secrets: writing sealed bundle: %w", err)
	}
	return nil
}
