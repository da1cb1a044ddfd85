// Command screener 从简历 PDF 中提取结构化候选人记录，并与岗位要求做技能匹配
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-screener/internal/config"
	"resume-screener/internal/logger"
	"resume-screener/internal/tracing"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg             *config.Config
	shutdownTracing tracing.ShutdownFunc
)

var rootCmd = &cobra.Command{
	Use:           "screener",
	Short:         "Resume screening toolkit",
	Long:          "screener extracts candidate records from resume PDFs, optionally with an LLM analyzer, and ranks candidates against job requirements.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations["skipConfig"] == "true" {
			logger.Init(logger.Config{Level: "info", Format: "pretty"})
			return nil
		}

		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Logger.Level = logLevel
		}
		cfg = loaded

		logger.Init(logger.Config{
			Level:        cfg.Logger.Level,
			Format:       cfg.Logger.Format,
			TimeFormat:   cfg.Logger.TimeFormat,
			ReportCaller: cfg.Logger.ReportCaller,
		})

		shutdown, err := tracing.InitTracerProvider(cmd.Context(), cfg.Tracing)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化追踪失败，继续运行")
			return nil
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if shutdownTracing == nil {
			return
		}
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("关闭追踪失败")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logger.level")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
