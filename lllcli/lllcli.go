// Package lllcli provides a command-line front end for compiling, running
// and debugging lll programs read from a text source file via lllasm.
package lllcli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/solidifylabs/lllc/lll"
	"github.com/solidifylabs/lllc/lllasm"
	"github.com/solidifylabs/lllc/runexec"
)

// Run parses command-line arguments and flags to compile, run or debug the
// program read from the named source file. It should be called from a
// main.main() function; invoke the resulting binary without arguments for
// usage.
func Run(sourcePath string) {
	if err := run(sourcePath); err != nil {
		log.Fatal(err)
	}
}

func run(sourcePath string) error {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read %q: %w", sourcePath, err)
	}
	src := lllasm.Source(string(raw))

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Parse and compile the program to EVM bytecode",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := lll.Compile(src)
			if err != nil {
				return err
			}
			fmt.Printf("%#x\n", out)
			return nil
		},
	}

	var callData []byte

	execCmd := &cobra.Command{
		Use:   "exec",
		Short: "Compile then execute the bytecode",
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := lll.Compile(src)
			if err != nil {
				return err
			}
			out, err := runexec.Run(compiled, callData)
			if err != nil {
				return err
			}
			fmt.Printf("%#x\n", out)
			return nil
		},
	}

	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Compile then single-step the bytecode in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := lll.Compile(src)
			if err != nil {
				return err
			}
			dbg, result := runexec.StartDebugging(compiled, callData)
			defer dbg.FastForward()
			return runTerminalUI(dbg, callData, compiled, result)
		},
	}

	for _, c := range []*cobra.Command{execCmd, debugCmd} {
		c.Flags().BytesHexVarP(&callData, "calldata", "d", nil, "Call data")
	}

	cmd := &cobra.Command{
		Short: "lllc: an LLL-family compiler and runner targeting EVM bytecode",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.AddCommand(compileCmd, execCmd, debugCmd)
	return cmd.Execute()
}
