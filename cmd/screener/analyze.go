package main

import (
	"fmt"

	"resume-screener/internal/processor"
	"resume-screener/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.pdf]",
	Short: "Analyze one resume with the configured analyzer and heuristic fallback",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeTextFile string
	analyzeOutput   string
	analyzeSave     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTextFile, "text", "", "Analyze plain resume text from this file")
	addOutputFlag(analyzeCmd.Flags(), &analyzeOutput, "Write the analysis result JSON to this file")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the result to the configured store and publish the event")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	analyzer, err := processor.NewResumeAnalyzerFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	var result *types.AnalysisResult
	if analyzeTextFile != "" || len(args) == 0 {
		text, err := readResumeText(cmd, args, analyzeTextFile)
		if err != nil {
			return err
		}
		result = analyzer.Analyze(ctx, text)
	} else {
		result, err = analyzer.ProcessDocument(ctx, args[0])
		if err != nil {
			return err
		}
	}

	if analyzeSave {
		st, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if st.Records == nil {
			return fmt.Errorf("storage.backend is none, nothing to save to")
		}
		if err := st.Records.Save(ctx, result); err != nil {
			return fmt.Errorf("保存分析结果失败: %w", err)
		}
		if st.Publisher != nil {
			if err := st.Publisher.PublishRecordExtracted(ctx, result); err != nil {
				return fmt.Errorf("发布事件失败: %w", err)
			}
		}
	}
	return writeOutput(analyzeOutput, result)
}
