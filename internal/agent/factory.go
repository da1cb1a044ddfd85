package agent

import (
	"context"
	"fmt"
	"strings"

	"resume-screener/internal/config"

	"github.com/cloudwego/eino/components/model"
)

const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// NewAnalyzerFromConfig 按配置创建文本分析器。
// provider 为 none 时返回 (nil, nil)，调用方应走纯启发式路径
func NewAnalyzerFromConfig(ctx context.Context, cfg config.AnalyzerConfig) (*ChatModelAnalyzer, error) {
	var (
		llm       model.BaseChatModel
		modelName string
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		m, err := NewOpenAICompatibleChatModel(cfg.APIKey, cfg.Model, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("创建 OpenAI 兼容模型失败: %w", err)
		}
		llm, modelName = m, m.ModelName()
	case ProviderGemini:
		name := cfg.Model
		if strings.HasPrefix(name, "gpt-") {
			// 默认配置里的模型名属于 OpenAI
			name = ""
		}
		m, err := NewGeminiChatModel(ctx, cfg.APIKey, name)
		if err != nil {
			return nil, fmt.Errorf("创建 Gemini 模型失败: %w", err)
		}
		llm, modelName = m, m.ModelName()
	default:
		return nil, fmt.Errorf("不支持的分析器提供方: %s", cfg.Provider)
	}

	return NewChatModelAnalyzer(NewRateLimitedChatModel(llm, cfg.QPM), analyzerOptions(cfg, modelName)...)
}

func analyzerOptions(cfg config.AnalyzerConfig, modelName string) []AnalyzerOption {
	opts := []AnalyzerOption{WithAnalyzerModelName(modelName)}
	if cfg.Temperature > 0 {
		opts = append(opts, WithTemperature(float32(cfg.Temperature)))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(cfg.MaxTokens))
	}
	return opts
}
