// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/skiffworks/skiff/lib/secret"
	"github.com/skiffworks/skiff/lib/secrets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: skiff-keystore keygen|create|inspect [flags]")
	}

	action := os.Args[1]
	flags := os.Args[2:]
	switch action {
	case "keygen":
		return runKeygen(flags)
	case "create":
		return runCreate(flags)
	case "inspect":
		return runInspect(flags)
	default:
		return fmt.Errorf("unknown action %q (want keygen, create, or inspect)", action)
	}
}

func runKeygen(arguments []string) error {
	var output string

	flagSet := pflag.NewFlagSet("skiff-keystore keygen", pflag.ContinueOnError)
	flagSet.StringVar(&output, "output", "", "file to write the private key to (required)")
	if err := flagSet.Parse(arguments); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if output == "" {
		return fmt.Errorf("--output is required")
	}

	keypair, err := secrets.GenerateKeypair()
	if err != nil {
		return err
	}
	defer keypair.Close()

	if err := writePrivateKey(output, keypair.PrivateKey); err != nil {
		return err
	}

	// Only the public key goes to stdout; the private key exists
	// solely in the output file.
	fmt.Println(keypair.PublicKey)
	return nil
}

func runCreate(arguments []string) error {
	var (
		output        string
		recipients    []string
		usePassphrase bool
	)

	flagSet := pflag.NewFlagSet("skiff-keystore create", pflag.ContinueOnError)
	flagSet.StringVar(&output, "output", "", "file to write the sealed bundle to (required)")
	flagSet.StringArrayVar(&recipients, "recipient", nil, "age public key to seal to (repeatable)")
	flagSet.BoolVar(&usePassphrase, "passphrase", false, "seal with a passphrase prompted on the terminal instead of recipients")
	if err := flagSet.Parse(arguments); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if output == "" {
		return fmt.Errorf("--output is required")
	}
	if usePassphrase == (len(recipients) > 0) {
		return fmt.Errorf("exactly one of --recipient or --passphrase is required")
	}

	entries, err := readEntries(os.Stdin)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no entries on stdin (want KEY=VALUE lines)")
	}

	var store *secrets.SealedStore
	if usePassphrase {
		passphrase, err := promptPassphrase(true)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		store, err = secrets.SealWithPassphrase(entries, passphrase)
		if err != nil {
			return err
		}
	} else {
		for index, recipient := range recipients {
			canonical, err := secrets.ParsePublicKey(recipient)
			if err != nil {
				return err
			}
			recipients[index] = canonical
		}
		store, err = secrets.Seal(entries, recipients)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	if err := store.SaveFile(output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "sealed %d entries to %s (digest %x)\n", len(entries), output, store.Digest())
	return nil
}

func runInspect(arguments []string) error {
	var (
		bundle        string
		identityFile  string
		usePassphrase bool
	)

	flagSet := pflag.NewFlagSet("skiff-keystore inspect", pflag.ContinueOnError)
	flagSet.StringVar(&bundle, "bundle", "", "sealed bundle file to inspect (required)")
	flagSet.StringVar(&identityFile, "identity", "", "age private key file for unlocking")
	flagSet.BoolVar(&usePassphrase, "passphrase", false, "unlock with a passphrase prompted on the terminal")
	if err := flagSet.Parse(arguments); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if bundle == "" {
		return fmt.Errorf("--bundle is required")
	}
	if usePassphrase == (identityFile != "") {
		return fmt.Errorf("exactly one of --identity or --passphrase is required")
	}

	store, err := secrets.LoadSealedFile(bundle)
	if err != nil {
		return err
	}
	defer store.Close()

	if usePassphrase {
		passphrase, err := promptPassphrase(false)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		if err := store.UnlockWithPassphrase(passphrase); err != nil {
			return err
		}
	} else {
		privateKey, err := secret.ReadFromPath(identityFile)
		if err != nil {
			return fmt.Errorf("reading identity %s: %w", identityFile, err)
		}
		defer privateKey.Close()
		if err := store.UnlockWithKey(privateKey); err != nil {
			return err
		}
	}

	// Entry names only — values never reach stdout.
	for _, key := range store.Keys() {
		fmt.Println(key)
	}
	return nil
}

// writePrivateKey writes the key followed by a trailing newline,
// streaming straight from the protected buffer so the key never lands
// in an ordinary heap allocation.
func writePrivateKey(path string, privateKey *secret.Buffer) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if _, err := file.Write(privateKey.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("writing private key: %w", err)
	}
	if _, err := file.Write([]byte{'\n'}); err != nil {
		file.Close()
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	return nil
}

// readEntries parses KEY=VALUE lines. Blank lines and #-comments are
// skipped; empty values are rejected, since sealing would refuse them
// anyway. Values are returned as byte slices so sealing can zero them
// afterwards.
func readEntries(input *os.File) (map[string][]byte, error) {
	entries := map[string][]byte{}
	scanner := bufio.NewScanner(input)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("line %d: want KEY=VALUE, got %q", lineNumber, line)
		}
		if value == "" {
			return nil, fmt.Errorf("line %d: entry %q has an empty value", lineNumber, strings.TrimSpace(key))
		}
		entries[strings.TrimSpace(key)] = []byte(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return entries, nil
}

// promptPassphrase reads a passphrase from the controlling terminal
// without echo. When confirm is set, it asks twice and requires a
// match.
func promptPassphrase(confirm bool) (*secret.Buffer, error) {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("opening terminal for passphrase prompt: %w", err)
	}
	defer tty.Close()

	fmt.Fprint(os.Stderr, "passphrase: ")
	first, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("passphrase is empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "confirm passphrase: ")
		second, err := term.ReadPassword(int(tty.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			secret.Zero(first)
			return nil, fmt.Errorf("reading confirmation: %w", err)
		}
		match := len(first) == len(second) && string(first) == string(second)
		secret.Zero(second)
		if !match {
			secret.Zero(first)
			return nil, fmt.Errorf("passphrases do not match")
		}
	}

	return secret.FromBytes(first)
}
