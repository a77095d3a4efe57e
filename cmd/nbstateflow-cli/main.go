// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"nbstateflow/internal/compile"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/graphviz"
	"nbstateflow/internal/script"
	"nbstateflow/internal/settings"
	"nbstateflow/internal/stateflow"
)

const usage = `Usage: nbstateflow-cli [--role NAME] --mode raw|graphviz|stateflow <file>`

func main() {
	path, mode, role, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		color.Red("%s", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file %s: %s", path, err)
		os.Exit(1)
	}

	prog, err := script.Parse(path, string(source))
	if err != nil {
		printCompileError(path, string(source), err)
		os.Exit(1)
	}

	proj, err := compile.Compile(prog, role, settings.Settings{OmitUnknownBlocks: true})
	if err != nil {
		printCompileError(path, string(source), err)
		os.Exit(1)
	}

	switch mode {
	case "raw":
		fmt.Printf("%+v\n", proj)
	case "graphviz":
		fmt.Print(graphviz.Build(proj).Render())
	case "stateflow":
		out, err := stateflow.Render(proj)
		if err != nil {
			color.Red("%s", err)
			os.Exit(1)
		}
		fmt.Print(out)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func printCompileError(path, source string, err error) {
	if ce, ok := err.(errors.CompileError); ok {
		fmt.Print(errors.NewReporter(path, source).Format(ce))
		return
	}
	color.Red("%s", err)
}

// parseArgs scans a flat argv for one positional file path and a required
// --mode/-m flag, plus an optional --role/-r flag, matching the style of
// this project's root main.go rather than pulling in a flags library.
func parseArgs(args []string) (path, mode, role string, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--mode", "-m":
			if i+1 >= len(args) {
				return "", "", "", fmt.Errorf("%s requires a value", args[i])
			}
			i++
			mode = args[i]
		case "--role", "-r":
			if i+1 >= len(args) {
				return "", "", "", fmt.Errorf("%s requires a value", args[i])
			}
			i++
			role = args[i]
		default:
			if path != "" {
				return "", "", "", fmt.Errorf("unexpected extra argument %q", args[i])
			}
			path = args[i]
		}
	}

	if path == "" {
		return "", "", "", fmt.Errorf("missing input file path")
	}
	switch mode {
	case "raw", "graphviz", "stateflow":
	case "":
		return "", "", "", fmt.Errorf("missing required --mode flag")
	default:
		return "", "", "", fmt.Errorf("unknown mode %q (want raw, graphviz, or stateflow)", mode)
	}

	return path, mode, role, nil
}
