package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	docxrefit "github.com/alnah/go-docxrefit"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], DefaultEnv()))
}

// realMain dispatches commands and returns the process exit code.
func realMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "refit":
		return runRefitCommand(args[1:], env)
	case "template":
		return runTemplateCommand(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "docxrefit %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runRefitCommand parses flags and runs the refit command.
func runRefitCommand(args []string, env *Environment) int {
	flags, positional, err := parseRefitFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, logArgs ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", logArgs...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	svc := docxrefit.New()
	if err := runRefit(ctx, positional, flags, svc, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runTemplateCommand writes the built-in template to a file.
func runTemplateCommand(args []string, env *Environment) int {
	if len(args) != 1 {
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}

	data, err := docxrefit.DefaultTemplateBytes()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitGeneral
	}
	// #nosec G306 -- templates are meant to be readable
	if err := os.WriteFile(args[0], data, filePermissions); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitIO
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", args[0])
	return ExitSuccess
}
