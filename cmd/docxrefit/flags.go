package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags. A zero margin keeps the
// template's value for that side.
type pageFlags struct {
	orientation  string
	marginTop    float64
	marginRight  float64
	marginBottom float64
	marginLeft   float64
	disabled     bool
}

// headerFooterFlags holds header/footer flags.
type headerFooterFlags struct {
	headerText  string
	footerText  string
	pageNumbers bool
	disabled    bool
}

// refitFlags holds all flags for the refit command.
type refitFlags struct {
	common       commonFlags
	output       string
	workers      int
	template     string
	preview      bool
	page         pageFlags
	headerFooter headerFooterFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "top margin in mm (0 = keep template)")
	fs.Float64Var(&f.marginRight, "margin-right", 0, "right margin in mm (0 = keep template)")
	fs.Float64Var(&f.marginBottom, "margin-bottom", 0, "bottom margin in mm (0 = keep template)")
	fs.Float64Var(&f.marginLeft, "margin-left", 0, "left margin in mm (0 = keep template)")
	fs.BoolVar(&f.disabled, "no-page-setup", false, "keep the template's page geometry")
}

// addHeaderFooterFlags adds header/footer flags to a FlagSet.
func addHeaderFooterFlags(fs *flag.FlagSet, f *headerFooterFlags) {
	fs.StringVar(&f.headerText, "header-text", "", "header text")
	fs.StringVar(&f.footerText, "footer-text", "", "footer text")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "append page numbers to the footer")
	fs.BoolVar(&f.disabled, "no-header-footer", false, "keep the template's header/footer")
}

// parseRefitFlags parses refit command flags and returns positional args.
func parseRefitFlags(args []string) (*refitFlags, []string, error) {
	fs := flag.NewFlagSet("refit", flag.ContinueOnError)
	f := &refitFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file, directory, or .zip")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.template, "template", "t", "", "layout template .docx (default: built-in)")
	fs.BoolVar(&f.preview, "preview", false, "refit only the first document, write PREVIEW_<stem>.docx and print its text")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addHeaderFooterFlags(fs, &f.headerFooter)

	fs.Usage = func() { printRefitUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
