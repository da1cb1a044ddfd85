package matcher

import (
	"sort"

	"resume-screener/internal/types"
)

// Candidate 参与排名的候选人
type Candidate struct {
	ID     string
	Record *types.CandidateRecord
}

// CandidatesFromResults 把分析结果转换为候选人列表，文档标识作为候选人标识
func CandidatesFromResults(results []*types.AnalysisResult) []Candidate {
	out := make([]Candidate, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		out = append(out, Candidate{ID: r.DocumentID, Record: r.Record})
	}
	return out
}

// Rank 对多个候选人与同一岗位打分并排序：
// 得分降序，其次匹配技能数降序，最后按候选人标识升序
func (m *Matcher) Rank(candidates []Candidate, job types.JobRequirement) []types.MatchResult {
	results := make([]types.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		r := m.MatchRecord(c.Record, job)
		r.CandidateID = c.ID
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].MatchedSkills) != len(results[j].MatchedSkills) {
			return len(results[i].MatchedSkills) > len(results[j].MatchedSkills)
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	return results
}
