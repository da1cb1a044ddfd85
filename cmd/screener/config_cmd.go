package main

import (
	"fmt"

	"resume-screener/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       "Write a sample config.yaml with the defaults",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"skipConfig": "true"},
	RunE: func(_ *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateSampleConfig(path); err != nil {
			return err
		}
		fmt.Printf("sample config written to %s\n", path)
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:         "check <path>",
	Short:       "Validate a config file as written, without environment overrides",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skipConfig": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkConfigFile(cmd, args[0])
	},
}

// checkConfigFile 只校验文件本身，环境变量和 .env 不参与
func checkConfigFile(cmd *cobra.Command, path string) error {
	checked, err := config.LoadConfigFromFileOnly(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (extractor=%s, analyzer=%s, storage=%s)\n",
		path, checked.Extractor.Backend, checked.Analyzer.Provider, checked.Storage.Backend)
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}
