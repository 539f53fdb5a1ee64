// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/skiffworks/skiff/lib/codec"
	"github.com/skiffworks/skiff/lib/secrets"
	"github.com/skiffworks/skiff/lib/serverargs"
	"github.com/skiffworks/skiff/lib/settings"
	"github.com/skiffworks/skiff/lib/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		serverBinary  string
		configDir     string
		logsDir       string
		settingsFile  string
		secretsBundle string
		pidFilePath   string
		daemonize     bool
		quiet         bool
		dumpArgs      bool
	)

	flagSet := pflag.NewFlagSet("skiff-launcher", pflag.ContinueOnError)
	flagSet.StringVar(&serverBinary, "server-binary", "", "path to the skiff-server binary (auto-detected from PATH if empty)")
	flagSet.StringVar(&configDir, "config-dir", "/etc/skiff", "directory holding skiff.yaml and other configuration")
	flagSet.StringVar(&logsDir, "logs-dir", "/var/log/skiff", "directory the server should write log files to")
	flagSet.StringVar(&settingsFile, "settings-file", "", "settings file to load (default: skiff.yaml in the config directory)")
	flagSet.StringVar(&secretsBundle, "secrets-bundle", "", "sealed secrets bundle from skiff-keystore (empty store when omitted)")
	flagSet.StringVar(&pidFilePath, "pid-file", "", "absolute path the server should write its pid to (no pid file when omitted)")
	flagSet.BoolVarP(&daemonize, "daemonize", "d", false, "leave the server running after the launcher exits")
	flagSet.BoolVarP(&quiet, "quiet", "q", false, "tell the server to suppress console log output")
	flagSet.BoolVar(&dumpArgs, "dump-args", false, "print the encoded bundle in CBOR diagnostic notation instead of launching")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if settingsFile == "" {
		settingsFile = filepath.Join(configDir, "skiff.yaml")
	}
	nodeSettings, err := settings.LoadFile(settingsFile)
	if err != nil {
		return fmt.Errorf("loading settings from %s: %w", settingsFile, err)
	}

	var store secrets.Store
	if secretsBundle != "" {
		sealed, err := secrets.LoadSealedFile(secretsBundle)
		if err != nil {
			return err
		}
		store = sealed
	} else {
		store = secrets.NewEmptyStore()
	}

	var pidFile *string
	if pidFilePath != "" {
		pidFile = &pidFilePath
	}

	args, err := serverargs.New(serverargs.Params{
		Daemonize: daemonize,
		Quiet:     quiet,
		PIDFile:   pidFile,
		Secrets:   store,
		Settings:  nodeSettings,
		ConfigDir: configDir,
		LogsDir:   logsDir,
	})
	if err != nil {
		return fmt.Errorf("assembling server arguments: %w", err)
	}
	defer args.Close()

	if dumpArgs {
		return dumpBundle(args)
	}

	if serverBinary == "" {
		serverBinary, err = exec.LookPath("skiff-server")
		if err != nil {
			return fmt.Errorf("skiff-server not found in PATH; use --server-binary")
		}
	}

	return launch(logger, serverBinary, args)
}

// dumpBundle prints the bundle's wire encoding in CBOR diagnostic
// notation, one data item per line. Secret payloads appear as the
// bytes that would travel the pipe (ciphertext for sealed bundles).
func dumpBundle(args *serverargs.Args) error {
	var stream bytes.Buffer
	if err := args.WriteTo(wire.NewWriter(&stream)); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}

	notation, err := codec.Diagnose(stream.Bytes())
	if err != nil {
		return fmt.Errorf("diagnosing bundle: %w", err)
	}
	fmt.Println(notation)
	return nil
}

// launch spawns the server and hands the bundle over on its stdin.
// When daemonizing, the launcher returns as soon as the handoff is
// written; otherwise it forwards termination signals and waits.
func launch(logger *slog.Logger, serverBinary string, args *serverargs.Args) error {
	command := exec.Command(serverBinary)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	stdinPipe, err := command.StdinPipe()
	if err != nil {
		return fmt.Errorf("creating stdin pipe: %w", err)
	}

	if err := command.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", serverBinary, err)
	}
	logger.Info("server started",
		"binary", serverBinary,
		"pid", command.Process.Pid,
		"daemonize", args.Daemonize())

	writeError := args.WriteTo(wire.NewWriter(stdinPipe))
	closeError := stdinPipe.Close()
	if writeError != nil {
		command.Process.Kill()
		command.Wait()
		return fmt.Errorf("writing startup arguments to server stdin: %w", writeError)
	}
	if closeError != nil {
		command.Process.Kill()
		command.Wait()
		return fmt.Errorf("closing server stdin: %w", closeError)
	}

	if args.Daemonize() {
		// The server keeps running; let go of the process handle so
		// the launcher can exit without reaping it.
		return command.Process.Release()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		for received := range signals {
			command.Process.Signal(received)
		}
	}()

	if err := command.Wait(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		return fmt.Errorf("waiting for server: %w", err)
	}
	return nil
}
