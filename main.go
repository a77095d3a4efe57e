// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"nbstateflow/internal/errors"
	"nbstateflow/internal/script"
)

// This is a minimal parse-only entry point; cmd/nbstateflow-cli is the
// full compiler CLI (spec §6's raw|graphviz|stateflow modes).
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: nbstateflow <file>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := script.Parse(path, string(source))
	if err != nil {
		if ce, ok := err.(errors.CompileError); ok {
			fmt.Print(errors.NewReporter(path, string(source)).Format(ce))
		} else {
			color.Red("%s", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Parsed program %q with %d role(s)\n", prog.Name, len(prog.Roles))
	color.Green("✅ successfully parsed %s", path)
}
