// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package serverargs

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/settings"
)

// Construction invariant violations. These indicate a programming
// error on the encode side or a corrupt/mismatched stream on the
// decode side — never a recoverable input problem.
var (
	// ErrNoSecrets reports a bundle without a secrets store. The
	// store is required even when there are no secrets to carry; use
	// secrets.NewEmptyStore rather than leaving it nil.
	ErrNoSecrets = errors.New("secrets store is required")

	// ErrNoSettings reports a bundle without a settings container.
	ErrNoSettings = errors.New("settings container is required")

	// ErrRelativePIDFile reports a pid file path that is not absolute.
	ErrRelativePIDFile = errors.New("pid file path must be absolute")
)

// Params holds the inputs for constructing an args bundle. All path
// handling is purely syntactic — no field is checked against the
// filesystem.
type Params struct {
	// Daemonize is true when the server should detach from the
	// launcher and keep running after it exits.
	Daemonize bool

	// Quiet is true when the server should not write log output to
	// the console.
	Quiet bool

	// PIDFile is the absolute path the server should write its
	// process id to, or nil when no pid file should be written. An
	// absent pid file is distinct from an empty path.
	PIDFile *string

	// Secrets is the secure settings store to hand off. Required;
	// the concrete variant is chosen by the launcher.
	Secrets secrets.Store

	// Settings is the node settings container read from the
	// configuration file. Required.
	Settings *settings.Settings

	// ConfigDir is the directory holding the node configuration.
	ConfigDir string

	// LogsDir is the directory log files should be written to.
	LogsDir string
}

// Args is the immutable startup-argument bundle handed from the
// launcher to the server. It is constructed once — either by [New] on
// the sending side or by [ReadArgs] on the receiving side — and read
// through accessors thereafter. Each process owns its own bundle;
// nothing is shared across the handoff stream.
type Args struct {
	daemonize  bool
	quiet      bool
	pidFile    string
	hasPIDFile bool
	secrets    secrets.Store
	settings   *settings.Settings
	configDir  string
	logsDir    string
}

// New validates params and constructs the bundle. PIDFile, when
// present, must be an absolute path; Secrets and Settings must be
// non-nil; ConfigDir and LogsDir must be non-empty. Paths are stored
// in cleaned syntactic form.
func New(params Params) (*Args, error) {
	if params.Secrets == nil {
		return nil, ErrNoSecrets
	}
	if params.Settings == nil {
		return nil, ErrNoSettings
	}
	if params.ConfigDir == "" {
		return nil, errors.New("config directory is required")
	}
	if params.LogsDir == "" {
		return nil, errors.New("logs directory is required")
	}

	args := &Args{
		daemonize: params.Daemonize,
		quiet:     params.Quiet,
		secrets:   params.Secrets,
		settings:  params.Settings,
		configDir: filepath.Clean(params.ConfigDir),
		logsDir:   filepath.Clean(params.LogsDir),
	}

	if params.PIDFile != nil {
		if !filepath.IsAbs(*params.PIDFile) {
			return nil, fmt.Errorf("%w: %q", ErrRelativePIDFile, *params.PIDFile)
		}
		args.pidFile = filepath.Clean(*params.PIDFile)
		args.hasPIDFile = true
	}

	return args, nil
}

// Daemonize reports whether the server should run detached.
func (a *Args) Daemonize() bool {
	return a.daemonize
}

// Quiet reports whether console log output should be suppressed.
func (a *Args) Quiet() bool {
	return a.quiet
}

// PIDFile returns the pid file path and whether one was provided.
func (a *Args) PIDFile() (string, bool) {
	return a.pidFile, a.hasPIDFile
}

// Secrets returns the secure settings store.
func (a *Args) Secrets() secrets.Store {
	return a.secrets
}

// Settings returns the node settings container.
func (a *Args) Settings() *settings.Settings {
	return a.settings
}

// ConfigDir returns the configuration directory.
func (a *Args) ConfigDir() string {
	return a.configDir
}

// LogsDir returns the log directory.
func (a *Args) LogsDir() string {
	return a.logsDir
}

// Close releases the secret material held by the bundle's store.
func (a *Args) Close() error {
	return a.secrets.Close()
}
