package main

import (
	"encoding/json"
	"fmt"
	"os"

	"resume-screener/internal/catalog"
	"resume-screener/internal/matcher"
	"resume-screener/internal/processor"
	"resume-screener/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [file.pdf]...",
	Short: "Rank candidates against a job requirement",
	Long: "Scores candidates against required skills. With PDF arguments the files are analyzed first; " +
		"without arguments the candidates come from the configured record store.",
	RunE: runMatch,
}

var (
	matchJobFile     string
	matchTitle       string
	matchSkills      string
	matchDescription string
	matchTop         int
)

func init() {
	matchCmd.Flags().StringVar(&matchJobFile, "job", "", "Job requirement JSON file ({title, required_skills, description})")
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "Job title")
	matchCmd.Flags().StringVar(&matchSkills, "skills", "", "Comma separated required skills")
	matchCmd.Flags().StringVar(&matchDescription, "description", "", "Job description used for summary similarity")
	matchCmd.Flags().IntVar(&matchTop, "top", 0, "Only print the first N results")
	rootCmd.AddCommand(matchCmd)
}

func loadJob() (types.JobRequirement, error) {
	var job types.JobRequirement
	if matchJobFile != "" {
		data, err := os.ReadFile(matchJobFile)
		if err != nil {
			return job, fmt.Errorf("读取岗位文件失败: %w", err)
		}
		if err := json.Unmarshal(data, &job); err != nil {
			return job, fmt.Errorf("解析岗位文件失败: %w", err)
		}
	}
	if matchTitle != "" {
		job.Title = matchTitle
	}
	if matchSkills != "" {
		job.RequiredSkills = types.ParseSkillString(matchSkills)
	}
	if matchDescription != "" {
		job.Description = matchDescription
	}
	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("岗位要求无效: %w", err)
	}
	return job, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	job, err := loadJob()
	if err != nil {
		return err
	}

	var candidates []matcher.Candidate
	if len(args) > 0 {
		analyzer, err := processor.NewResumeAnalyzerFromConfig(ctx, cfg)
		if err != nil {
			return err
		}
		for _, path := range args {
			result, err := analyzer.ProcessDocument(ctx, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s - %v\n", path, err)
				continue
			}
			candidates = append(candidates, matcher.Candidate{ID: path, Record: result.Record})
		}
	} else {
		st, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if st.Records == nil {
			return fmt.Errorf("no PDF arguments and storage.backend is none")
		}
		cat := catalog.New(st.Records)
		if err := cat.Refresh(ctx); err != nil {
			return err
		}
		candidates = matcher.CandidatesFromResults(cat.All())
	}

	ranked := newMatcher().Rank(candidates, job)
	if matchTop > 0 && len(ranked) > matchTop {
		ranked = ranked[:matchTop]
	}
	return writeJSON(os.Stdout, ranked)
}
