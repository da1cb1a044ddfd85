package models

import (
	"time"

	"gorm.io/datatypes"
)

// CandidateRecordRow 分析结果表，完整结果以 JSON 列保存，常用字段单独成列便于查询
type CandidateRecordRow struct {
	DocumentID    string         `gorm:"type:char(36);primaryKey"`
	AnalysisID    string         `gorm:"type:char(36)"`
	SourcePath    string         `gorm:"type:varchar(1024)"`
	Page          int            `gorm:"type:int;default:0"`
	AnalysisPath  string         `gorm:"type:varchar(32);index:idx_candidate_records_path"`
	CandidateName string         `gorm:"type:varchar(255);index:idx_candidate_records_name"`
	Email         string         `gorm:"type:varchar(255)"`
	Phone         string         `gorm:"type:varchar(50)"`
	ModelUsed     string         `gorm:"type:varchar(100)"`
	SkillsJSON    datatypes.JSON `gorm:"type:json"`
	ResultJSON    datatypes.JSON `gorm:"type:json;not null"`
	ProcessedAt   time.Time      `gorm:"type:datetime(6);index:idx_candidate_records_processed_at"`
	CreatedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CandidateRecordRow) TableName() string {
	return "candidate_records"
}
