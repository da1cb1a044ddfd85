package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resume-screener/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

const (
	// DefaultOpenAIAPIURL OpenAI Chat Completions 接口
	DefaultOpenAIAPIURL = "https://api.openai.com/v1/chat/completions"
	// DashScopeCompatibleAPIURL 阿里云 DashScope 的 OpenAI 兼容接口
	DashScopeCompatibleAPIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"

	defaultOpenAIModelName = "gpt-4o-mini"
	maxLoggedBodyBytes     = 512
)

// --- OpenAI Compatible Request/Response Structures ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float32        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	TopP        *float32        `json:"top_p,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
}

type openAIChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openAICompletionResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
	Usage   *openAIUsage       `json:"usage,omitempty"`
}

// OpenAICompatibleChatModel 实现了 eino model.BaseChatModel，
// 可对接 OpenAI 以及任何 OpenAI 兼容的 Chat Completions 接口（如通义千问 DashScope）
type OpenAICompatibleChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// OpenAICompatibleOption 模型配置选项
type OpenAICompatibleOption func(*OpenAICompatibleChatModel)

// WithHTTPClient 使用自定义 HTTP 客户端
func WithHTTPClient(c *http.Client) OpenAICompatibleOption {
	return func(m *OpenAICompatibleChatModel) {
		if c != nil {
			m.httpClient = c
		}
	}
}

// WithModelLogger 配置自定义日志记录器
func WithModelLogger(l zerolog.Logger) OpenAICompatibleOption {
	return func(m *OpenAICompatibleChatModel) {
		m.logger = l
	}
}

// NewOpenAICompatibleChatModel 创建一个新的 OpenAI 兼容模型实例
func NewOpenAICompatibleChatModel(apiKey, modelName, apiURL string, options ...OpenAICompatibleOption) (*OpenAICompatibleChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultOpenAIModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = DefaultOpenAIAPIURL
	}

	m := &OpenAICompatibleChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{},
		logger:     logger.Component("openai_compat"),
	}
	for _, opt := range options {
		opt(m)
	}

	m.logger.Info().Str("api_url", url).Str("model", mn).Msg("使用 OpenAI 兼容 LLM 客户端")
	return m, nil
}

// ModelName 当前使用的模型名
func (m *OpenAICompatibleChatModel) ModelName() string {
	return m.modelName
}

// Generate 实现 model.BaseChatModel 接口
func (m *OpenAICompatibleChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	opts := model.GetCommonOptions(&model.Options{Model: &m.modelName}, options...)

	reqPayload := openAICompletionRequestFrom(messages, opts)
	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	m.logger.Debug().Str("model", reqPayload.Model).Int("messages", len(reqPayload.Messages)).Msg("发送请求")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, truncate(string(bodyBytes), maxLoggedBodyBytes))
	}

	var resp openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", truncate(string(bodyBytes), maxLoggedBodyBytes))
	}

	choice := resp.Choices[0]
	content := ""
	if choice.Message.Content != nil {
		content = *choice.Message.Content
	}

	event := m.logger.Debug().Str("finish_reason", choice.FinishReason).Int("content_length", len(content))
	if resp.Usage != nil {
		event = event.Int("total_tokens", resp.Usage.TotalTokens)
	}
	event.Msg("收到响应")

	role := schema.RoleType(choice.Message.Role)
	if role == "" {
		role = schema.Assistant
	}
	return &schema.Message{Role: role, Content: content}, nil
}

// Stream 实现 model.BaseChatModel 接口。简历分析只需要一次性结果，不支持流式输出
func (m *OpenAICompatibleChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAICompatibleChatModel 不支持 Stream")
}

func openAICompletionRequestFrom(messages []*schema.Message, opts *model.Options) openAIChatCompletionRequest {
	req := openAIChatCompletionRequest{
		Messages:    make([]openAIMessage, 0, len(messages)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
		Stop:        opts.Stop,
	}
	if opts.Model != nil {
		req.Model = *opts.Model
	}
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		req.Messages = append(req.Messages, openAIMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return req
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ model.BaseChatModel = (*OpenAICompatibleChatModel)(nil)
