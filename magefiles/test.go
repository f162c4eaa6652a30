// Copyright (c) 2026 The casemap Authors. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

const coverProfile = "coverage.out"

// Test groups test targets.
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests with a coverage profile in bin/ and prints the
// per-function summary.
func (Test) Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, coverProfile)
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}

// Smoke builds the binary, then encodes a generated entity of every
// catalogued type and decodes the result again.
func (Test) Smoke() error {
	mg.Deps(Build)
	bin := filepath.Join(binaryDir, binaryName)

	tmp, err := os.MkdirTemp("", "casemap-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	dirFlags := []string{"--config-dir", filepath.Join(tmp, "config"), "--data-dir", filepath.Join(tmp, "data")}

	for _, entityType := range types.EntityTypes() {
		args := append(append([]string{}, dirFlags...), "encode", "--fake", entityType, "--seed", "1")
		doc, err := sh.Output(bin, args...)
		if err != nil {
			return fmt.Errorf("encode %s: %w", entityType, err)
		}

		decode := exec.Command(bin, append(append([]string{}, dirFlags...), "decode", "--format", "json")...)
		decode.Stdin = strings.NewReader(doc)
		var stderr bytes.Buffer
		decode.Stderr = &stderr
		if err := decode.Run(); err != nil {
			return fmt.Errorf("decode %s: %w: %s", entityType, err, stderr.String())
		}
		fmt.Printf("ok  %s\n", entityType)
	}
	return nil
}
