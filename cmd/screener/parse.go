package main

import (
	"fmt"
	"os"

	"resume-screener/internal/processor"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file.pdf]",
	Short: "Extract a candidate record with the heuristic extractor only",
	Long:  "Runs the normalizer, segmenter and field extractors without any external analyzer and prints the candidate record.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

var (
	parseTextFile string
	parseOutput   string
)

func init() {
	parseCmd.Flags().StringVar(&parseTextFile, "text", "", "Read plain resume text from this file instead of a PDF")
	addOutputFlag(parseCmd.Flags(), &parseOutput, "Write the record JSON to this file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readResumeText(cmd, args, parseTextFile)
	if err != nil {
		return err
	}
	record := processor.NewHeuristicExtractorFromConfig(cfg.Heuristics).Extract(text)
	return writeOutput(parseOutput, record)
}

// readResumeText 从 --text 文件或 PDF 参数读取全文
func readResumeText(cmd *cobra.Command, args []string, textFile string) (string, error) {
	switch {
	case textFile != "" && len(args) > 0:
		return "", fmt.Errorf("cannot use --text together with a PDF argument")
	case textFile != "":
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("读取文本文件失败: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		extractor, err := processor.NewDocumentExtractorFromConfig(cmd.Context(), cfg.Extractor)
		if err != nil {
			return "", err
		}
		doc, err := extractor.Extract(cmd.Context(), args[0])
		if err != nil {
			return "", err
		}
		return doc.Text(), nil
	default:
		return "", fmt.Errorf("must provide a PDF file or --text")
	}
}
