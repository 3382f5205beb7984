package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docxrefit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  refit      Refit .docx documents into a layout template")
	fmt.Fprintln(w, "  template   Write the built-in layout template to a file")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docxrefit help <command>' for details on a specific command.")
}

// printRefitUsage prints usage for the refit command.
func printRefitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docxrefit refit <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Refit .docx documents into a layout template.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .docx files, directories, or .zip archives,")
	fmt.Fprintln(w, "           processed in argument order")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, directory, or .zip")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --template <path>     Layout template .docx (default: built-in)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --preview             Refit only the first document and print its text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin-top <f>      Top margin in mm (0 = keep template)")
	fmt.Fprintln(w, "      --margin-right <f>    Right margin in mm")
	fmt.Fprintln(w, "      --margin-bottom <f>   Bottom margin in mm")
	fmt.Fprintln(w, "      --margin-left <f>     Left margin in mm")
	fmt.Fprintln(w, "      --no-page-setup       Keep the template's page geometry")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header/Footer:")
	fmt.Fprintln(w, "      --header-text <s>     Header text")
	fmt.Fprintln(w, "      --footer-text <s>     Footer text")
	fmt.Fprintln(w, "      --page-numbers        Append page numbers to the footer")
	fmt.Fprintln(w, "      --no-header-footer    Keep the template's header/footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style mapping and find/replace are configured via the config file:")
	fmt.Fprintln(w, "  styleMap:")
	fmt.Fprintln(w, "    Titre 1: Heading 1")
	fmt.Fprintln(w, "  findReplace:")
	fmt.Fprintln(w, "    - pattern: 'ACME Corp'")
	fmt.Fprintln(w, "      replace: 'Example Ltd'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docxrefit template <output.docx>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the built-in layout template to a file, as a starting")
	fmt.Fprintln(w, "point for custom templates.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "refit":
		printRefitUsage(env.Stdout)
	case "template":
		printTemplateUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docxrefit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docxrefit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
