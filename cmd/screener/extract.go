package main

import (
	"fmt"
	"os"

	"resume-screener/internal/parser"
	"resume-screener/internal/processor"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract layout-ordered text from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractNormalize bool
	extractJSON      bool
)

func init() {
	extractCmd.Flags().BoolVar(&extractNormalize, "normalize", false, "Normalize the text (section headers on their own lines)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the raw document with pages and blocks as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	extractor, err := processor.NewDocumentExtractorFromConfig(cmd.Context(), cfg.Extractor)
	if err != nil {
		return err
	}
	doc, err := extractor.Extract(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if extractJSON {
		return writeJSON(os.Stdout, doc)
	}
	for _, page := range doc.Pages {
		text := page.Text()
		if extractNormalize {
			text = parser.Normalize(text)
		}
		fmt.Fprintf(os.Stdout, "===== Page %d =====\n%s\n", page.Number, text)
	}
	return nil
}
