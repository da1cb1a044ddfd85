package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// JobRequirement 岗位要求，由外部输入
type JobRequirement struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title" validate:"required"`
	RequiredSkills SkillSet `json:"required_skills"`
	Description    string   `json:"description,omitempty"`
}

// Validate 校验岗位要求的必填字段
func (j *JobRequirement) Validate() error {
	return validate.Struct(j)
}

// MatchResult 一次技能匹配的结果
type MatchResult struct {
	CandidateID   string   `json:"candidate_id,omitempty"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	// SkillScore 混入文本相似度之前的技能得分
	SkillScore float64 `json:"skill_score"`
	// Similarity 简介与岗位描述的相似度(0-1)，未参与计算时为0
	Similarity float64 `json:"similarity,omitempty"`
	// Reason 输入无效时的说明
	Reason string `json:"reason,omitempty"`
}

// EmptyMatchResult 返回零分、空集合的结果
func EmptyMatchResult(reason string) MatchResult {
	return MatchResult{
		MatchedSkills: []string{},
		MissingSkills: []string{},
		Reason:        reason,
	}
}
