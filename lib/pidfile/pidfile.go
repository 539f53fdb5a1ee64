// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

// Package pidfile writes and removes the server's pid file. The path
// comes from the startup-argument bundle; when the bundle carries no
// pid file path, the server skips this entirely.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PIDFile represents a pid file created for the current process.
type PIDFile struct {
	path string
}

// New writes the current process id to path and returns a handle for
// later removal. If the file already exists and names a process that
// is still alive, New fails — a second server instance must not
// silently take over the pid file. A stale file left by a dead
// process is overwritten.
func New(path string) (*PIDFile, error) {
	if err := checkStale(path); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating pid file directory: %w", err)
	}
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("writing pid file: %w", err)
	}
	return &PIDFile{path: path}, nil
}

// Remove deletes the pid file. Safe to call on shutdown even if the
// file was already removed.
func (p *PIDFile) Remove() error {
	err := os.Remove(p.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing pid file: %w", err)
	}
	return nil
}

// Path returns the pid file location.
func (p *PIDFile) Path() string {
	return p.path
}

// checkStale returns an error when path names a live process.
func checkStale(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading existing pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		// Unparseable content counts as stale.
		return nil
	}

	// On Linux a live pid has a /proc entry; checking it avoids
	// signaling the process.
	if _, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid))); err == nil {
		return fmt.Errorf("pid file %s already held by running process %d", path, pid)
	}
	return nil
}
