//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"codeberg.org/snonux/flashdeck/internal"
)

const binary = "flashdeck"

var Default = Build

// Build compiles the flashdeck binary into the repository root
func Build() error {
	fmt.Printf("Building %s %s\n", binary, internal.Version)
	return sh.RunV("go", "build", "-o", binary, "./cmd/flashdeck")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Install installs the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/flashdeck")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
