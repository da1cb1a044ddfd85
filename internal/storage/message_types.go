package storage

import (
	"time"

	"resume-screener/internal/constants"
	"resume-screener/internal/types"

	"github.com/google/uuid"
)

// RecordExtractedEvent 记录提取完成事件，只携带摘要，完整记录从存储读取
type RecordExtractedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`

	DocumentID string `json:"document_id"`
	AnalysisID string `json:"analysis_id"`
	SourcePath string `json:"source_path,omitempty"`
	Page       int    `json:"page,omitempty"`
	Path       string `json:"path"`
	ModelUsed  string `json:"model_used,omitempty"`

	// 摘要字段
	CandidateName string `json:"candidate_name,omitempty"`
	SkillCount    int    `json:"skill_count"`
	HasContact    bool   `json:"has_contact"`
}

// NewRecordExtractedEvent 由分析结果构造事件
func NewRecordExtractedEvent(result *types.AnalysisResult, now time.Time) RecordExtractedEvent {
	ev := RecordExtractedEvent{
		EventID:    uuid.NewString(),
		EventType:  constants.EventRecordExtracted,
		Source:     constants.EventSource,
		OccurredAt: now.UTC(),
		DocumentID: result.DocumentID,
		AnalysisID: result.Metadata.AnalysisID,
		SourcePath: result.Metadata.SourcePath,
		Page:       result.Metadata.Page,
		Path:       string(result.Path),
		ModelUsed:  result.Metadata.ModelUsed,
	}
	if result.Record != nil {
		ev.CandidateName = result.Record.Name
		ev.SkillCount = len(result.Record.Skills.Flatten())
		ev.HasContact = !result.Record.Contact.IsEmpty()
	}
	return ev
}
