//go:build mage

// Package main provides build targets for the casemap project using Mage.
//
// Usage:
//
//	mage build          Compile the casemap binary to bin/
//	mage release        Cross-compile casemap into bin/<os>-<arch>/
//	mage install        Install casemap to GOPATH/bin
//	mage clean          Remove build artifacts
//	mage lint           Check gofmt, run go vet and golangci-lint
//	mage fmt            Report files that need gofmt
//	mage vet            Run go vet
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and print per-function coverage
//	mage test:smoke     Build, then encode and decode a generated entity of every type
//	mage stats          Print Go line counts and documentation word counts
package main
