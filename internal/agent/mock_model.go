package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-screener/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockResponse 定义了 MockChatClient 的单次预期响应
type MockResponse struct {
	Content string
	Error   error
	// Delay 返回前等待的时长，ctx 先结束时返回 ctx.Err()
	Delay time.Duration
	// Panic 非空时以该值 panic，模拟有缺陷的客户端
	Panic interface{}
}

// MockChatClient 是一个用于测试的 model.BaseChatModel 的模拟实现
type MockChatClient struct {
	mu sync.Mutex

	// 单个可重复的响应
	ExpectedResponse MockResponse

	// 按顺序返回的不同响应
	SequentialResponses []MockResponse
	ResponseIndex       int
	IsSequential        bool

	ReceivedMessages []*schema.Message
	ReceivedOptions  []*model.Options
	Calls            int
}

// NewMockChatClient 创建一个返回固定响应的 MockChatClient
func NewMockChatClient(expectedResponse string, expectedError error) *MockChatClient {
	return &MockChatClient{
		ExpectedResponse: MockResponse{Content: expectedResponse, Error: expectedError},
	}
}

// NewMockChatClientWith 创建一个返回指定响应（可带延迟或 panic）的 MockChatClient
func NewMockChatClientWith(resp MockResponse) *MockChatClient {
	return &MockChatClient{ExpectedResponse: resp}
}

// NewMockChatClientSequential 创建一个按顺序返回不同响应的 MockChatClient
func NewMockChatClientSequential(responses []MockResponse) *MockChatClient {
	if len(responses) == 0 {
		logger.Warn().Msg("[MockChatClient] 未配置任何响应，调用将始终返回错误")
		responses = []MockResponse{{Error: errors.New("mock client has no responses configured")}}
	}
	return &MockChatClient{
		SequentialResponses: responses,
		IsSequential:        true,
	}
}

// Generate 模拟 LLM 的 Generate 方法
func (m *MockChatClient) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.Calls++
	m.ReceivedMessages = append(m.ReceivedMessages, input...)
	m.ReceivedOptions = append(m.ReceivedOptions, model.GetCommonOptions(&model.Options{}, opts...))

	resp := m.ExpectedResponse
	if m.IsSequential {
		if m.ResponseIndex >= len(m.SequentialResponses) {
			m.mu.Unlock()
			return nil, errors.New("mock client has run out of sequential responses")
		}
		resp = m.SequentialResponses[m.ResponseIndex]
		m.ResponseIndex++
	}
	m.mu.Unlock()

	if resp.Panic != nil {
		panic(resp.Panic)
	}
	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return schema.AssistantMessage(resp.Content, nil), nil
}

// Stream 模拟 LLM 的 Stream 方法
func (m *MockChatClient) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not implemented in MockChatClient")
}

// CallCount 返回 Generate 的调用次数
func (m *MockChatClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// GetReceivedMessages 返回所有调用中累积的已接收消息
func (m *MockChatClient) GetReceivedMessages() []*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*schema.Message(nil), m.ReceivedMessages...)
}

var _ model.BaseChatModel = (*MockChatClient)(nil)
