// Command godigen resolves the dependency graphs of a module and generates their implementation.
//
// It is meant to be called from a go:generate directive:
//
//	//go:generate go run github.com/a-peyrard/godigen/cmd/godigen generate
package main

import (
	"os"
)

func main() {
	if err := newCLI().Exec(); err != nil {
		os.Exit(1)
	}
}
