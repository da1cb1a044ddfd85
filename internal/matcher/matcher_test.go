package matcher

import (
	"testing"

	"resume-screener/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_Example(t *testing.T) {
	m := New()
	result := m.Match(
		types.NewFlatSkillSet([]string{"Python", "FastAPI", "SQL"}),
		types.NewFlatSkillSet([]string{"python", "nodejs", "sql"}),
	)

	assert.Equal(t, []string{"python", "sql"}, result.MatchedSkills)
	assert.Equal(t, []string{"nodejs"}, result.MissingSkills)
	assert.Equal(t, 66.67, result.Score)
	assert.Empty(t, result.Reason)
}

func TestMatch_EmptySides(t *testing.T) {
	m := New()
	some := types.NewFlatSkillSet([]string{"Go"})

	for name, tc := range map[string][2]types.SkillSet{
		"no requirements":     {some, types.NewFlatSkillSet(nil)},
		"no candidate skills": {types.NewFlatSkillSet(nil), some},
		"blank strings":       {types.NewFlatSkillSet([]string{"  "}), some},
		"empty categories":    {types.NewCategorizedSkillSet(map[string][]string{"databases": {}}), some},
	} {
		t.Run(name, func(t *testing.T) {
			result := m.Match(tc[0], tc[1])
			assert.Zero(t, result.Score)
			assert.Equal(t, []string{}, result.MatchedSkills)
			assert.Equal(t, []string{}, result.MissingSkills)
			assert.Equal(t, ErrInvalidMatchInput.Error(), result.Reason)
		})
	}
}

func TestMatch_NormalizedFormsOnly(t *testing.T) {
	m := New()
	required := types.ParseSkillString("docker, Kubernetes ,GO")

	a := m.Match(types.NewFlatSkillSet([]string{" Docker", "go", "GO"}), required)
	b := m.Match(types.NewCategorizedSkillSet(map[string][]string{
		"cloud_devops":          {"DOCKER "},
		"programming_languages": {"Go"},
	}), required)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.MatchedSkills, b.MatchedSkills)
	assert.Equal(t, []string{"docker", "go"}, a.MatchedSkills)
	assert.Equal(t, []string{"kubernetes"}, a.MissingSkills)
	assert.Equal(t, 66.67, a.Score)
}

func TestMatch_MatchedSubsetOfCandidate(t *testing.T) {
	m := New()
	candidate := types.NewFlatSkillSet([]string{"JavaScript", "PostgreSQL", "AWS Lambda"})
	result := m.Match(candidate, types.NewFlatSkillSet([]string{"java", "sql", "aws"}))

	assert.Subset(t, candidate.Flatten(), result.MatchedSkills)
	assert.Equal(t, []string{"aws lambda", "javascript", "postgresql"}, result.MatchedSkills)
	assert.Equal(t, float64(100), result.Score)
}

func TestMatch_TokenBoundary(t *testing.T) {
	m := New(WithTokenBoundary(true))
	result := m.Match(
		types.NewFlatSkillSet([]string{"JavaScript", "AWS Lambda", "C++"}),
		types.NewFlatSkillSet([]string{"java", "aws", "c"}),
	)

	assert.Equal(t, []string{"aws lambda"}, result.MatchedSkills)
	assert.Equal(t, []string{"c", "java"}, result.MissingSkills)
	assert.Equal(t, 33.33, result.Score)
}

func TestContainsToken(t *testing.T) {
	cases := []struct {
		s, token string
		want     bool
	}{
		{"aws lambda", "aws", true},
		{"aws lambda", "lambda", true},
		{"javascript", "java", false},
		{"c++", "c", false},
		{"c#, java", "java", true},
		{"objective-c", "c", true},
		{"scala java", "java", true},
		{"javajava java", "java", true},
		{"go", "", false},
		{"go", "golang", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, containsToken(tc.s, tc.token), "%q in %q", tc.token, tc.s)
	}
}

func TestMatchRecord_Blend(t *testing.T) {
	record := types.NewCandidateRecord()
	record.Skills = types.NewFlatSkillSet([]string{"Go", "SQL"})
	record.Summary = "backend engineer"

	job := types.JobRequirement{
		Title:          "Backend Engineer",
		RequiredSkills: types.NewFlatSkillSet([]string{"go", "sql"}),
		Description:    "Backend Engineer",
	}

	result := New().MatchRecord(record, job)
	assert.Equal(t, float64(100), result.SkillScore)
	assert.Equal(t, float64(1), result.Similarity)
	assert.Equal(t, float64(100), result.Score)

	job.Description = "frontend engineer"
	result = New().MatchRecord(record, job)
	expected := round2((100 + Similarity("backend engineer", "frontend engineer")*100) / 2)
	assert.Equal(t, expected, result.Score)
	assert.Less(t, result.Score, float64(100))

	result = New(WithBlendSummary(false)).MatchRecord(record, job)
	assert.Equal(t, float64(100), result.Score)

	record.Summary = ""
	result = New().MatchRecord(record, job)
	assert.Equal(t, float64(100), result.Score)
	assert.Zero(t, result.Similarity)
}

func TestMatchRecord_NilRecord(t *testing.T) {
	result := New().MatchRecord(nil, types.JobRequirement{Title: "x", RequiredSkills: types.ParseSkillString("go")})
	assert.Zero(t, result.Score)
	assert.Equal(t, ErrInvalidMatchInput.Error(), result.Reason)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, float64(1), Similarity("", ""))
	assert.Equal(t, float64(1), Similarity("Go Developer", "go developer "))
	assert.Equal(t, float64(0), Similarity("abc", ""))
	assert.InDelta(t, 1-3.0/7.0, Similarity("kitten", "sitting"), 1e-9)
	assert.Equal(t, Similarity("kitten", "sitting"), Similarity("sitting", "kitten"))
}

func TestRank(t *testing.T) {
	mk := func(summary string, skills ...string) *types.CandidateRecord {
		r := types.NewCandidateRecord()
		r.Skills = types.NewFlatSkillSet(skills)
		r.Summary = summary
		return r
	}
	job := types.JobRequirement{Title: "Go Developer", RequiredSkills: types.ParseSkillString("go, docker, sql")}

	ranked := New().Rank([]Candidate{
		{ID: "c", Record: mk("", "Go")},
		{ID: "b", Record: mk("", "Go", "Docker")},
		{ID: "a", Record: mk("", "Go")},
		{ID: "d", Record: mk("", "Go", "Golang", "Docker")},
		{ID: "e", Record: nil},
	}, job)

	require.Len(t, ranked, 5)
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.CandidateID)
	}
	// d 与 b 同分，d 匹配到的技能更多
	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, ids)
	assert.Equal(t, 66.67, ranked[0].Score)
}

func TestCandidatesFromResults(t *testing.T) {
	record := types.NewCandidateRecord()
	out := CandidatesFromResults([]*types.AnalysisResult{{DocumentID: "x", Record: record}, nil})
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].ID)
	assert.Same(t, record, out[0].Record)
}
