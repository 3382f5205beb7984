package docxrefit_test

import (
	"context"
	"fmt"
	"log"
	"os"

	docxrefit "github.com/alnah/go-docxrefit"
)

// Example demonstrates refitting a legacy document into the built-in
// template with a header, a style mapping and a text replacement.
func Example() {
	source, err := os.ReadFile("legacy.docx")
	if err != nil {
		log.Fatal(err)
	}

	svc := docxrefit.New()
	out, err := svc.Refit(context.Background(), docxrefit.Input{
		Source: source,
		Page: &docxrefit.PageSetup{
			Orientation: docxrefit.OrientationPortrait,
			Margins:     docxrefit.Margins{Top: 20, Right: 15, Bottom: 20, Left: 25},
		},
		HeaderFooter: &docxrefit.HeaderFooter{
			HeaderText:  "New Layout",
			FooterText:  "Confidential",
			PageNumbers: true,
		},
		StyleMap: map[string]string{"Titre 1": "Heading 1"},
		Replacements: []docxrefit.ReplaceRule{
			{Pattern: "ACME Corp", Replace: "Example Ltd"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile("legacy_refit.docx", out, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("refit complete")
}
