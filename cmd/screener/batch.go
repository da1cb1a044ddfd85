package main

import (
	"fmt"
	"os"

	"resume-screener/internal/processor"
	"resume-screener/internal/types"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process many resumes and persist the results",
}

var batchFilesCmd = &cobra.Command{
	Use:   "files <file.pdf>...",
	Short: "Treat every file as one resume",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, func(bp *processor.BatchProcessor) *types.BatchReport {
			return bp.ProcessFiles(cmd.Context(), args)
		})
	},
}

var batchPagesCmd = &cobra.Command{
	Use:   "pages <file.pdf>",
	Short: "Treat every page of one PDF as a separate resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, func(bp *processor.BatchProcessor) *types.BatchReport {
			return bp.ProcessPages(cmd.Context(), args[0])
		})
	},
}

var (
	batchOutput string
	batchStrict bool
)

func init() {
	addOutputFlag(batchCmd.PersistentFlags(), &batchOutput, "Write the batch report JSON to this file")
	batchCmd.PersistentFlags().BoolVar(&batchStrict, "strict", false, "Exit non-zero when any item fails")
	batchCmd.AddCommand(batchFilesCmd, batchPagesCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, run func(*processor.BatchProcessor) *types.BatchReport) error {
	ctx := cmd.Context()
	analyzer, err := processor.NewResumeAnalyzerFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	report := run(newBatchProcessor(analyzer, st))
	if err := writeOutput(batchOutput, report); err != nil {
		return err
	}

	for _, f := range report.Failed {
		fmt.Fprintln(os.Stderr, f.String())
	}
	fmt.Fprintf(os.Stderr, "processed: %d, failed: %d\n", len(report.Processed), len(report.Failed))
	if batchStrict && len(report.Failed) > 0 {
		return fmt.Errorf("%d item(s) failed", len(report.Failed))
	}
	return nil
}
