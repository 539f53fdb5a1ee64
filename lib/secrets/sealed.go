// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"filippo.io/age"

	"github.com/skiffworks/skiff/lib/codec"
	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/wire"
)

// TypeIDSealed identifies the age-encrypted store variant on the wire.
const TypeIDSealed = "skiff.secrets.sealed"

// ErrSealed is returned by Keys-adjacent accessors when the store has
// not been unlocked yet.
var ErrSealed = errors.New("secrets: store is sealed; unlock it first")

func init() {
	Register(TypeIDSealed, decodeSealed)
}

// SealedStore carries secret entries as an age ciphertext. The
// ciphertext travels locked through the handoff stream; the receiving
// process unlocks it with its machine identity key or an operator
// passphrase. Until then, Get and Keys fail, which keeps plaintext
// secret material out of the launcher→server pipe entirely.
type SealedStore struct {
	ciphertext []byte
	unlocked   map[string]*secret.Buffer
}

// Seal encrypts entries to the given age recipients (age1... public
// keys) and returns the locked store. The plaintext entry values are
// zeroed in place. Every entry must have a non-empty value: the
// receiving side restores each value into a protected buffer, which
// cannot hold zero bytes.
func Seal(entries map[string][]byte, recipientKeys []string) (*SealedStore, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("secrets: sealing requires at least one recipient")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("secrets: invalid recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	return seal(entries, recipients...)
}

// SealWithPassphrase encrypts entries with an age scrypt recipient
// derived from the passphrase. The plaintext entry values are zeroed
// in place.
func SealWithPassphrase(entries map[string][]byte, passphrase *secret.Buffer) (*SealedStore, error) {
	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("secrets: scrypt recipient: %w", err)
	}
	return seal(entries, recipient)
}

func seal(entries map[string][]byte, recipients ...age.Recipient) (*SealedStore, error) {
	for name, value := range entries {
		if len(value) == 0 {
			return nil, fmt.Errorf("secrets: entry %q has an empty value", name)
		}
	}

	plaintext, err := codec.Marshal(entries)
	for _, value := range entries {
		secret.Zero(value)
	}
	if err != nil {
		return nil, fmt.Errorf("secrets: marshaling entries: %w", err)
	}
	defer secret.Zero(plaintext)

	var sealed bytes.Buffer
	encryptWriter, err := age.Encrypt(&sealed, recipients...)
	if err != nil {
		return nil, fmt.Errorf("secrets: age encrypt: %w", err)
	}
	if _, err := encryptWriter.Write(plaintext); err != nil {
		return nil, fmt.Errorf("secrets: writing plaintext to age: %w", err)
	}
	if err := encryptWriter.Close(); err != nil {
		return nil, fmt.Errorf("secrets: finalizing age ciphertext: %w", err)
	}

	return &SealedStore{ciphertext: sealed.Bytes()}, nil
}

func decodeSealed(r *wire.Reader) (Store, error) {
	ciphertext, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 {
		return nil, errors.New("sealed store payload is empty")
	}
	return &SealedStore{ciphertext: ciphertext}, nil
}

// UnlockWithKey decrypts the bundle with an age x25519 private key
// (AGE-SECRET-KEY-1... format, typically read from the machine key
// file via secret.ReadFromPath).
func (s *SealedStore) UnlockWithKey(privateKey *secret.Buffer) error {
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return fmt.Errorf("secrets: invalid private key: %w", err)
	}
	return s.unlock(identity)
}

// UnlockWithPassphrase decrypts the bundle with an age scrypt
// identity derived from the passphrase.
func (s *SealedStore) UnlockWithPassphrase(passphrase *secret.Buffer) error {
	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return fmt.Errorf("secrets: scrypt identity: %w", err)
	}
	return s.unlock(identity)
}

func (s *SealedStore) unlock(identity age.Identity) error {
	if s.unlocked != nil {
		return nil
	}

	decryptReader, err := age.Decrypt(bytes.NewReader(s.ciphertext), identity)
	if err != nil {
		return fmt.Errorf("secrets: age decrypt: %w", err)
	}
	plaintext, err := io.ReadAll(decryptReader)
	if err != nil {
		return fmt.Errorf("secrets: reading decrypted bundle: %w", err)
	}
	defer secret.Zero(plaintext)

	var entries map[string][]byte
	if err := codec.Unmarshal(plaintext, &entries); err != nil {
		return fmt.Errorf("secrets: parsing decrypted bundle: %w", err)
	}

	unlocked := make(map[string]*secret.Buffer, len(entries))
	for name, value := range entries {
		buffer, err := secret.FromBytes(value)
		if err != nil {
			for _, open := range unlocked {
				open.Close()
			}
			return fmt.Errorf("secrets: protecting entry %q: %w", name, err)
		}
		unlocked[name] = buffer
	}
	s.unlocked = unlocked
	return nil
}

func (s *SealedStore) TypeID() string {
	return TypeIDSealed
}

// Keys returns the sorted entry names, or nil while the store is
// still sealed.
func (s *SealedStore) Keys() []string {
	if s.unlocked == nil {
		return nil
	}
	keys := make([]string, 0, len(s.unlocked))
	for name := range s.unlocked {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func (s *SealedStore) Get(name string) (*secret.Buffer, error) {
	if s.unlocked == nil {
		return nil, ErrSealed
	}
	buffer, ok := s.unlocked[name]
	if !ok {
		return nil, fmt.Errorf("secrets: no entry %q in sealed store", name)
	}
	return buffer, nil
}

// Digest hashes the ciphertext, so the digest is stable whether or
// not the store has been unlocked and never touches plaintext.
func (s *SealedStore) Digest() []byte {
	return digest(s.ciphertext)
}

// WriteTo emits the ciphertext as one byte-string token. A store can
// be re-encoded without ever being unlocked.
func (s *SealedStore) WriteTo(w *wire.Writer) error {
	return w.WriteBytes(s.ciphertext)
}

// Close releases any unlocked entry buffers and zeroes the
// ciphertext. The store is unusable afterwards.
func (s *SealedStore) Close() error {
	var firstError error
	for name, buffer := range s.unlocked {
		if err := buffer.Close(); err != nil && firstError == nil {
			firstError = fmt.Errorf("closing entry %q: %w", name, err)
		}
	}
	s.unlocked = nil
	secret.Zero(s.ciphertext)
	s.ciphertext = nil
	return firstError
}
