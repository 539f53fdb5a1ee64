// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/skiffworks/skiff/lib/pidfile"
	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/serverargs"
	"github.com/skiffworks/skiff/lib/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var machineKeyFile string

	flagSet := pflag.NewFlagSet("skiff-server", pflag.ContinueOnError)
	flagSet.StringVar(&machineKeyFile, "machine-key", "/etc/skiff/machine.key", "age private key file for unlocking sealed secrets")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	// The bundle arrives on stdin as a one-shot handoff from the
	// launcher. Everything else about this process is configured
	// from it.
	args, err := serverargs.ReadArgs(wire.NewReader(os.Stdin))
	if err != nil {
		return fmt.Errorf("reading startup arguments: %w", err)
	}
	defer args.Close()

	logger, logCleanup, err := newLogger(args)
	if err != nil {
		return err
	}
	defer logCleanup()

	if path, ok := args.PIDFile(); ok {
		pidFile, err := pidfile.New(path)
		if err != nil {
			return err
		}
		defer pidFile.Remove()
		logger.Info("pid file written", "path", path)
	}

	if sealed, ok := args.Secrets().(*secrets.SealedStore); ok {
		if err := unlockSecrets(sealed, machineKeyFile); err != nil {
			return err
		}
	}

	logger.Info("server started",
		"daemonize", args.Daemonize(),
		"config_dir", args.ConfigDir(),
		"logs_dir", args.LogsDir(),
		"settings_entries", args.Settings().Len(),
		"secrets_variant", args.Secrets().TypeID(),
		"secrets_keys", args.Secrets().Keys())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	received := <-signals
	logger.Info("shutting down", "signal", received.String())
	return nil
}

// newLogger builds the process logger from the bundle: quiet sends
// JSON records to a file in the logs directory instead of the
// console; otherwise stderr gets text output on a terminal and JSON
// when piped.
func newLogger(args *serverargs.Args) (*slog.Logger, func(), error) {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}

	if args.Quiet() {
		if err := os.MkdirAll(args.LogsDir(), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating logs directory: %w", err)
		}
		logPath := filepath.Join(args.LogsDir(), "skiff-server.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		logger := slog.New(slog.NewJSONHandler(logFile, options))
		return logger, func() { logFile.Close() }, nil
	}

	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler), func() {}, nil
}

// unlockSecrets opens the sealed store with the machine's age key.
func unlockSecrets(sealed *secrets.SealedStore, machineKeyFile string) error {
	privateKey, err := secret.ReadFromPath(machineKeyFile)
	if err != nil {
		return fmt.Errorf("reading machine key %s: %w", machineKeyFile, err)
	}
	defer privateKey.Close()

	if err := sealed.UnlockWithKey(privateKey); err != nil {
		return fmt.Errorf("unlocking secrets bundle: %w", err)
	}
	return nil
}
