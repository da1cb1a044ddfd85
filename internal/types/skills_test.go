package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSetUnmarshalAcceptsThreeShapes(t *testing.T) {
	var flat SkillSet
	require.NoError(t, json.Unmarshal([]byte(`["Go", " SQL ", null, 3]`), &flat))
	assert.False(t, flat.IsCategorized())
	assert.Equal(t, []string{"Go", " SQL ", "3"}, flat.Flat)

	var cat SkillSet
	require.NoError(t, json.Unmarshal([]byte(`{"languages": ["Go", "Python"], "tools": "Docker, Git", "empty": null}`), &cat))
	assert.True(t, cat.IsCategorized())
	assert.Equal(t, []string{"empty", "languages", "tools"}, cat.CategoryNames())
	assert.Equal(t, []string{"Docker", "Git"}, cat.Categories["tools"])
	assert.Empty(t, cat.Categories["empty"])

	var str SkillSet
	require.NoError(t, json.Unmarshal([]byte(`"python, nodejs; sql"`), &str))
	assert.Equal(t, []string{"python", "nodejs", "sql"}, str.Flat)

	var null SkillSet
	require.NoError(t, json.Unmarshal([]byte(`null`), &null))
	assert.Equal(t, 0, null.Len())

	var bad SkillSet
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestSkillSetFlatten(t *testing.T) {
	cat := NewCategorizedSkillSet(map[string][]string{
		"web":       {"React", " Go "},
		"languages": {"go", "Python", ""},
	})

	// 分类按名字排序：languages 在 web 之前
	assert.Equal(t, []string{"go", "python", "react"}, cat.Flatten())
	assert.Equal(t, []string{"python", "sql"}, ParseSkillString("Python, SQL, python").Flatten())
	assert.Empty(t, NewFlatSkillSet(nil).Flatten())
}

func TestSkillSetMarshal(t *testing.T) {
	data, err := json.Marshal(NewFlatSkillSet(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = json.Marshal(NewCategorizedSkillSet(map[string][]string{"db": {"SQL"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"db": ["SQL"]}`, string(data))

	record := NewCandidateRecord()
	data, err = json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "", "contact_info": {}, "summary": "",
		"education": [], "experience": [], "certifications": [], "skills": []
	}`, string(data))
}

func TestJobRequirementValidate(t *testing.T) {
	job := JobRequirement{RequiredSkills: ParseSkillString("go")}
	assert.Error(t, job.Validate(), "缺少岗位名称应校验失败")

	job.Title = "Backend Engineer"
	assert.NoError(t, job.Validate())
}

func TestEntryStrings(t *testing.T) {
	assert.Equal(t, "B.Tech from IIT (2020)", EducationEntry{Degree: "B.Tech", Institution: "IIT", Year: "2020"}.String())
	assert.Equal(t, "Engineer at Acme (2019 - 2020)", ExperienceEntry{Title: "Engineer", Company: "Acme", Duration: "2019 - 2020"}.String())
	assert.Equal(t, "Acme", ExperienceEntry{Company: "Acme"}.String())
	assert.Equal(t, "id - boom", FailedItem{ID: "id", Reason: "boom"}.String())
	assert.Equal(t, "Page 2 of cv.pdf - boom", FailedItem{ID: "cv.pdf#page-2", Label: "Page 2 of cv.pdf", Reason: "boom"}.String())
}
