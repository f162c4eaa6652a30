// Copyright (c) 2026 The casemap Authors. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "casemap"
	binaryDir  = "bin"
	cmdDir     = "./cmd/casemap"
)

// releaseTargets are the GOOS/GOARCH pairs built by Release.
var releaseTargets = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "arm64"},
	{"windows", "amd64"},
}

// Build compiles the casemap binary for the host to bin/.
func Build() error {
	return buildBinary(filepath.Join(binaryDir, binaryName), nil)
}

// Release cross-compiles casemap into bin/<os>-<arch>/.
func Release() error {
	for _, t := range releaseTargets {
		name := binaryName
		if t[0] == "windows" {
			name += ".exe"
		}
		out := filepath.Join(binaryDir, t[0]+"-"+t[1], name)
		env := map[string]string{"GOOS": t[0], "GOARCH": t[1], "CGO_ENABLED": "0"}
		if err := buildBinary(out, env); err != nil {
			return fmt.Errorf("release %s/%s: %w", t[0], t[1], err)
		}
	}
	return nil
}

func buildBinary(out string, env map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return sh.RunWithV(env, binGo, "build", "-trimpath", "-o", out, cmdDir)
}

// Clean removes bin/, which also holds the coverage profile.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
