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
)

const (
	defaultAnalyzerTemperature float32 = 0.3
	defaultAnalyzerMaxTokens           = 2000
	// maxAnalyzerInputRunes 发送给模型的简历文本上限
	maxAnalyzerInputRunes = 30000
)

const analyzerSystemPrompt = "You are a professional resume analyzer. Extract structured information from resumes accurately and respond with a single JSON object only."

const analyzerUserPromptTemplate = `Analyze the following resume and extract:
1. Personal information (name, email, phone, location)
2. Skills, grouped by category (programming_languages, web_technologies, databases, cloud_devops, data_science_ml, soft_skills, other)
3. Work experience (title, company, duration, responsibilities)
4. Education (degree, institution, year, score)
5. Achievements
6. A short professional summary

Respond in this JSON format:
{
  "personal_info": {"name": "", "email": "", "phone": "", "location": ""},
  "skills": {"programming_languages": []},
  "experience": [{"title": "", "company": "", "duration": "", "responsibilities": []}],
  "education": [{"degree": "", "institution": "", "year": "", "score": ""}],
  "achievements": [],
  "summary": ""
}

Resume text:
%s`

// ChatModelAnalyzer 基于 eino 聊天模型的简历文本分析器
type ChatModelAnalyzer struct {
	llm         model.BaseChatModel
	modelName   string
	temperature float32
	maxTokens   int
	logger      zerolog.Logger
}

// AnalyzerOption 分析器配置选项
type AnalyzerOption func(*ChatModelAnalyzer)

// WithTemperature 设置采样温度
func WithTemperature(t float32) AnalyzerOption {
	return func(a *ChatModelAnalyzer) {
		a.temperature = t
	}
}

// WithMaxTokens 设置输出 token 上限
func WithMaxTokens(n int) AnalyzerOption {
	return func(a *ChatModelAnalyzer) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithAnalyzerModelName 设置元数据中记录的模型名
func WithAnalyzerModelName(name string) AnalyzerOption {
	return func(a *ChatModelAnalyzer) {
		a.modelName = name
	}
}

// WithAnalyzerLogger 配置自定义日志记录器
func WithAnalyzerLogger(l zerolog.Logger) AnalyzerOption {
	return func(a *ChatModelAnalyzer) {
		a.logger = l
	}
}

// NewChatModelAnalyzer 创建分析器
func NewChatModelAnalyzer(llm model.BaseChatModel, opts ...AnalyzerOption) (*ChatModelAnalyzer, error) {
	if llm == nil {
		return nil, errors.New("chat model must not be nil")
	}
	a := &ChatModelAnalyzer{
		llm:         llm,
		temperature: defaultAnalyzerTemperature,
		maxTokens:   defaultAnalyzerMaxTokens,
		logger:      logger.Component("text_analyzer"),
	}
	if named, ok := llm.(interface{ ModelName() string }); ok {
		a.modelName = named.ModelName()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ModelName 返回使用的模型名，未知时为空
func (a *ChatModelAnalyzer) ModelName() string {
	return a.modelName
}

// Analyze 调用一次模型并返回原始输出。空文本直接返回空串，不发起调用
func (a *ChatModelAnalyzer) Analyze(ctx context.Context, rawText string) (string, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return "", nil
	}
	if runes := []rune(text); len(runes) > maxAnalyzerInputRunes {
		text = string(runes[:maxAnalyzerInputRunes])
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: analyzerSystemPrompt},
		{Role: schema.User, Content: fmt.Sprintf(analyzerUserPromptTemplate, text)},
	}

	resp, err := a.llm.Generate(ctx, messages,
		model.WithTemperature(a.temperature),
		model.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("调用分析模型失败: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	a.logger.Debug().Str("model", a.modelName).Int("output_length", len(resp.Content)).Msg("分析完成")
	return resp.Content, nil
}
