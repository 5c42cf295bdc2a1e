// Package main is the entry point for the emoreflect CLI.
package main

import (
	"os"

	"github.com/f3rmion/emoreflect/cmd/emoreflect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
