//go:build mage
// +build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dev namespace methods
// Note: Dev and Build types are defined in main.go

// Run builds and runs the application with help
func (Dev) Run() error {
	mg.Deps(Build.Binary)
	return sh.Run("./bin/gset", "--help")
}

// Demo builds the binary and round-trips a sample settings file in a scratch directory
func (Dev) Demo() error {
	mg.Deps(Build.Binary)

	dir, err := os.MkdirTemp("", "gset-demo-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	jsonPath := filepath.Join(dir, "Garmin-settings.json")
	setPath := filepath.Join(dir, "GARMIN.SET")
	if err := sh.RunV("./bin/gset", "sample-config", "--output", jsonPath); err != nil {
		return err
	}
	if err := sh.RunV("./bin/gset", "convert", "--output", setPath, jsonPath); err != nil {
		return err
	}
	return sh.RunV("./bin/gset", "show", "--file", setPath)
}
