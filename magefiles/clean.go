//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Clean namespace methods
// Note: Clean type is defined in main.go

// Bin removes compiled binaries
func (Clean) Bin() error {
	fmt.Println("Cleaning compiled binaries...")
	return os.RemoveAll("bin")
}

// Coverage removes coverage files
func (Clean) Coverage() error {
	fmt.Println("Cleaning coverage files...")
	os.Remove("coverage.out")
	os.Remove("coverage.html")
	return nil
}

// GoCache removes the Go build and test caches
func (Clean) GoCache() error {
	fmt.Println("Cleaning Go build and test caches...")
	return sh.Run("go", "clean", "-cache", "-testcache")
}

// Build removes build artifacts, Go caches, and untracked files
func (Clean) Build() error {
	mg.Deps(Clean.Bin, Clean.Coverage, Clean.GoCache)
	fmt.Println("Removing untracked files...")
	return sh.RunV("git", "clean", "-fd")
}

// Full removes everything git does not track, including ignored files
func (Clean) Full() error {
	mg.Deps(Clean.GoCache)
	fmt.Println("Removing all untracked and ignored files...")
	return sh.RunV("git", "clean", "-fdx")
}

// Deps removes the Go module cache
func (Clean) Deps() error {
	fmt.Println("Cleaning dependency cache...")
	return sh.Run("go", "clean", "-modcache")
}

// Cache removes recorded settings backups via the binary
func (Clean) Cache() error {
	fmt.Println("Cleaning gset backup cache...")
	if _, err := os.Stat("bin/gset"); err != nil {
		fmt.Println("Binary not found, skipping cache clean")
		return nil
	}
	return sh.RunV("./bin/gset", "clean")
}
