// Command lllc compiles, runs or debugs an lllasm source file.
package main

import (
	"fmt"
	"os"

	"github.com/solidifylabs/lllc/lllcli"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lllc <source-file> [compile|exec|debug] [flags]")
		os.Exit(2)
	}
	sourcePath := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	lllcli.Run(sourcePath)
}
