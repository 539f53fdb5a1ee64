// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package serverargs

import (
	"fmt"

	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/settings"
	"github.com/skiffworks/skiff/lib/wire"
)

// Field order is fixed by the protocol and must match between WriteTo
// and ReadArgs: daemonize, quiet, pidFile, secrets (type identifier
// then payload), settings, configDir, logsDir. There is no field
// tagging; reader and writer agree on this order out-of-band.

// WriteTo encodes the bundle onto the stream. The only failures are
// the delegated writers' own (secrets store, settings container) and
// the underlying stream's, propagated with field context.
func (a *Args) WriteTo(w *wire.Writer) error {
	if err := w.WriteBool(a.daemonize); err != nil {
		return fmt.Errorf("writing daemonize: %w", err)
	}
	if err := w.WriteBool(a.quiet); err != nil {
		return fmt.Errorf("writing quiet: %w", err)
	}

	var pidFile *string
	if a.hasPIDFile {
		pidFile = &a.pidFile
	}
	if err := w.WriteOptionalString(pidFile); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}

	if err := w.WriteString(a.secrets.TypeID()); err != nil {
		return fmt.Errorf("writing secrets type: %w", err)
	}
	if err := a.secrets.WriteTo(w); err != nil {
		return fmt.Errorf("writing secrets payload: %w", err)
	}

	if err := a.settings.WriteTo(w); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	if err := w.WriteString(a.configDir); err != nil {
		return fmt.Errorf("writing config directory: %w", err)
	}
	if err := w.WriteString(a.logsDir); err != nil {
		return fmt.Errorf("writing logs directory: %w", err)
	}
	return nil
}

// ReadArgs decodes a bundle from the stream. The secrets variant is
// resolved through the registry by the type identifier read from the
// stream; an unresolvable or unconstructible variant fails with
// *secrets.InvalidVariantError. The decoded fields go through [New],
// so construction invariants are re-asserted — a violation there
// means a corrupt or protocol-mismatched stream.
//
// Decode either fully succeeds or fails with no partial bundle; on
// failure any partially constructed store is closed and the stream
// position is undefined.
func ReadArgs(r *wire.Reader) (*Args, error) {
	daemonize, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading daemonize: %w", err)
	}
	quiet, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading quiet: %w", err)
	}

	pidFile, err := r.ReadOptionalString()
	if err != nil {
		return nil, fmt.Errorf("reading pid file: %w", err)
	}

	secretsTypeID, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading secrets type: %w", err)
	}
	store, err := secrets.Decode(secretsTypeID, r)
	if err != nil {
		return nil, err
	}

	nodeSettings, err := settings.ReadSettings(r)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	configDir, err := r.ReadString()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("reading config directory: %w", err)
	}
	logsDir, err := r.ReadString()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("reading logs directory: %w", err)
	}

	args, err := New(Params{
		Daemonize: daemonize,
		Quiet:     quiet,
		PIDFile:   pidFile,
		Secrets:   store,
		Settings:  nodeSettings,
		ConfigDir: configDir,
		LogsDir:   logsDir,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("decoded bundle violates construction invariants: %w", err)
	}
	return args, nil
}
