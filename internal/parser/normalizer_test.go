package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-screener/internal/types"
)

func TestNormalizeReplacesSynonymsAndBreaksBeforeHeaders(t *testing.T) {
	in := "John Doe WORK EXPERIENCE Software Engineer\nTechnical Skills: Go, SQL"
	out := Normalize(in)

	assert.Equal(t, "John Doe\nEXPERIENCE Software Engineer\nSKILLS: Go, SQL", out)
}

func TestNormalizeStripsUnsafeCharactersAndClipsWhitespace(t *testing.T) {
	in := "  Skills:   Go • Docker   |   K8s & Helm!\r\n\r\n\tPython  "
	out := Normalize(in)

	assert.Equal(t, "Skills:  Go  Docker  K8s  Helm\nPython", out)
	assert.NotContains(t, out, "•")
	assert.NotContains(t, out, "!")
}

func TestNormalizeKeepsHeaderWordsInsideLongerWords(t *testing.T) {
	out := Normalize("Experienced educationist")
	assert.Equal(t, "Experienced educationist", out, "词边界之外的标题词不应被拆行")
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize(" \n\t \n"))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"John Doe\nPROFESSIONAL SUMMARY\nBackend engineer – 6 years",
		"PROFESSIONAL WORK EXPERIENCE Jan 2019 — Present Acme Inc.",
		"skills and competencies: Go, Rust;  Python\r\nEducational Background B.Tech",
		"Career Objective • build things | Licenses & Certifications AWS",
		"EDUCATION ACADEMIC QUALIFICATIONS MBA",
		"SKILLS AND KEY COMPETENCIES leadership",
		"Technical Skills and Competencies: Go, SQL",
		"Technical Skills & Competencies Go",
		"Licenses and Certificates AWS",
		"name@example.com  +91 98765 43210   Location: Pune",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "规范化应当幂等: %q", in)
	}
}

func TestNormalizeCombinedSkillsHeader(t *testing.T) {
	out := Normalize("Technical Skills and Competencies: Go, SQL")
	assert.Equal(t, "SKILLS: Go, SQL", out)

	seg := Segment(out)
	assert.Equal(t, []string{"Go, SQL"}, seg.Sections[types.SectionSkills], "组合标题不应留下残余的标题词")
}

func TestNormalizeEveryHeaderStartsALine(t *testing.T) {
	out := Normalize("Jane summary text education B.Sc skills Go projects Demo certifications AWS experience Intern")

	for _, line := range strings.Split(out, "\n")[1:] {
		loc := sectionHeader.FindStringIndex(line)
		if assert.NotNil(t, loc, "行应以标题开头: %q", line) {
			assert.Equal(t, 0, loc[0], "标题应位于行首: %q", line)
		}
	}
}
