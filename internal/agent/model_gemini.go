package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-screener/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator genai.Models 中用到的方法，便于测试替换
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiChatModel 用 Google GenAI SDK 实现 eino model.BaseChatModel
type GeminiChatModel struct {
	models    contentGenerator
	modelName string
	logger    zerolog.Logger
}

// NewGeminiChatModel 创建使用 Gemini API 后端的模型
func NewGeminiChatModel(ctx context.Context, apiKey, modelName string) (*GeminiChatModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiChatModel(client.Models, modelName), nil
}

func newGeminiChatModel(models contentGenerator, modelName string) *GeminiChatModel {
	if modelName = strings.TrimSpace(modelName); modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiChatModel{
		models:    models,
		modelName: modelName,
		logger:    logger.Component("gemini"),
	}
}

// ModelName 当前使用的模型名
func (g *GeminiChatModel) ModelName() string {
	return g.modelName
}

// Generate 实现 model.BaseChatModel 接口。system 消息转为 SystemInstruction，其余按角色转为对话内容
func (g *GeminiChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	opts := model.GetCommonOptions(&model.Options{Model: &g.modelName}, options...)

	cfg := &genai.GenerateContentConfig{
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	}
	if opts.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*opts.MaxTokens)
	}
	if len(opts.Stop) > 0 {
		cfg.StopSequences = opts.Stop
	}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("prompt must not be empty")
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n")}}}
	}

	modelName := g.modelName
	if opts.Model != nil && *opts.Model != "" {
		modelName = *opts.Model
	}

	resp, err := g.models.GenerateContent(ctx, modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	output := joinCandidateText(resp)
	if output == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	g.logger.Debug().Str("model", modelName).Int("content_length", len(output)).Msg("收到响应")
	return schema.AssistantMessage(output, nil), nil
}

// Stream 实现 model.BaseChatModel 接口，不支持流式输出
func (g *GeminiChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("GeminiChatModel 不支持 Stream")
}

// joinCandidateText 拼接所有候选中的文本片段
func joinCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)
