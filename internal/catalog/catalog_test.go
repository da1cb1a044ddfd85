package catalog

import (
	"context"
	"errors"
	"testing"

	"resume-screener/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	results []*types.AnalysisResult
	err     error
}

func (s staticLister) List(context.Context) ([]*types.AnalysisResult, error) {
	return s.results, s.err
}

func result(id, name string, skills []string, edu []types.EducationEntry, exp []types.ExperienceEntry) *types.AnalysisResult {
	rec := types.NewCandidateRecord()
	rec.Name = name
	rec.Contact = types.ContactInfo{Email: id + "@example.org", Phone: "+1 555 123 4567", Location: "Austin, TX"}
	rec.Skills = types.NewFlatSkillSet(skills)
	if edu != nil {
		rec.Education = edu
	}
	if exp != nil {
		rec.Experience = exp
	}
	return &types.AnalysisResult{DocumentID: id, Record: rec}
}

func fixtures() []*types.AnalysisResult {
	return []*types.AnalysisResult{
		result("a", "Jane Smith", []string{"Go", "Kubernetes"},
			[]types.EducationEntry{{Degree: "B.Tech", Institution: "IIT Delhi", Year: "2018"}}, nil),
		result("b", "John Carter", []string{"Java", "Spring"},
			[]types.EducationEntry{{Degree: "MBA", Institution: "Stanford"}},
			[]types.ExperienceEntry{{Title: "Platform Engineer", Company: "Acme"}}),
		nil,
		{DocumentID: "no-record"},
	}
}

func loaded(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	c := New(staticLister{results: fixtures()}, opts...)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func ids(results []*types.AnalysisResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.DocumentID)
	}
	return out
}

func TestCatalog_Queries(t *testing.T) {
	c := loaded(t)
	assert.Len(t, c.All(), 2)

	assert.Equal(t, []string{"a"}, ids(c.BySkill("kube")))
	assert.Equal(t, []string{"a", "b"}, ids(c.BySkill("  ")))
	assert.Empty(t, c.BySkill("rust"))

	assert.Equal(t, []string{"b"}, ids(c.ByEducation("stanford")))
	assert.Equal(t, []string{"a"}, ids(c.ByEducation("B.TECH")))

	assert.Equal(t, []string{"b"}, ids(c.Search("platform")))
	assert.Equal(t, []string{"a"}, ids(c.Search("IIT")))
	assert.Equal(t, []string{"b"}, ids(c.Search("java")))

	r, ok := c.GetByID("b")
	require.True(t, ok)
	assert.Equal(t, "John Carter", r.Record.Name)
	_, ok = c.GetByID("no-record")
	assert.False(t, ok)
}

func TestCatalog_Masking(t *testing.T) {
	source := fixtures()
	c := New(staticLister{results: source}, WithMasking(true))
	require.NoError(t, c.Refresh(context.Background()))

	r, ok := c.GetByID("a")
	require.True(t, ok)
	assert.Equal(t, MaskedName, r.Record.Name)
	assert.Equal(t, MaskedEmail, r.Record.Contact.Email)
	assert.Equal(t, MaskedPhone, r.Record.Contact.Phone)
	assert.Equal(t, MaskedLocation, r.Record.Contact.Location)

	// 来源中的记录不受影响
	assert.Equal(t, "Jane Smith", source[0].Record.Name)
	assert.Equal(t, "a@example.org", source[0].Record.Contact.Email)

	// 屏蔽后仍可按技能查询
	assert.Equal(t, []string{"a"}, ids(c.BySkill("go")))
}

func TestMask_EntitiesAndStructured(t *testing.T) {
	in := result("x", "Jane Smith", nil, nil, nil)
	in.Record.Contact = types.ContactInfo{Email: "jane@example.org"}
	in.AnalyzerOutput = `{"personal_info":{"name":"Jane Smith"}}`
	in.Entities = &types.EntityView{Name: []string{"Jane Smith"}, Email: "jane@example.org"}
	in.AnalyzerStructured = map[string]interface{}{
		"personal_info": map[string]interface{}{"name": "Jane Smith", "phone": "555"},
		"summary":       "Backend engineer",
	}

	out := Mask(in)
	assert.Empty(t, out.AnalyzerOutput)
	assert.Equal(t, []string{MaskedName}, out.Entities.Name)
	assert.Equal(t, MaskedEmail, out.Entities.Email)
	assert.Empty(t, out.Entities.Phone)
	assert.Empty(t, out.Record.Contact.Phone, "空字段保持为空")
	assert.Empty(t, out.Record.Contact.Location)

	info := out.AnalyzerStructured["personal_info"].(map[string]interface{})
	assert.Equal(t, MaskedName, info["name"])
	assert.Equal(t, MaskedPhone, info["phone"])
	assert.NotContains(t, info, "email")
	assert.Equal(t, "Backend engineer", out.AnalyzerStructured["summary"])

	orig := in.AnalyzerStructured["personal_info"].(map[string]interface{})
	assert.Equal(t, "Jane Smith", orig["name"])
	assert.Nil(t, Mask(nil))
}

func TestCatalog_RefreshErrors(t *testing.T) {
	c := New(staticLister{err: errors.New("disk gone")})
	assert.ErrorContains(t, c.Refresh(context.Background()), "disk gone")
	assert.Empty(t, c.All())

	assert.Error(t, New(nil).Refresh(context.Background()))
}
