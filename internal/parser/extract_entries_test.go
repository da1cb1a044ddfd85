package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/types"
)

func TestExtractExperienceSplitsOnDateRange(t *testing.T) {
	lines := []string{
		"Jan 2019 - Dec 2020",
		"Software Engineer",
		"Acme Inc.",
		"Built internal tools",
		"Jan 2021 - Present",
		"Senior Engineer",
		"Globex LLC",
		"Led a team",
	}

	entries := ExtractExperience(lines)
	require.Len(t, entries, 2)

	assert.Equal(t, types.ExperienceEntry{
		Title:            "Software Engineer",
		Company:          "Acme Inc.",
		Duration:         "Jan 2019 - Dec 2020",
		Responsibilities: []string{"Built internal tools"},
	}, entries[0])
	assert.Equal(t, types.ExperienceEntry{
		Title:            "Senior Engineer",
		Company:          "Globex LLC",
		Duration:         "Jan 2021 - Present",
		Responsibilities: []string{"Led a team"},
	}, entries[1])
}

func TestExtractExperienceTitleBeforeDate(t *testing.T) {
	lines := []string{
		"Data Analyst",
		"Initech Solutions",
		"2017 - 2019",
		"- Built dashboards",
		"Backend Developer",
		"Hooli Labs",
		"2019 to Present",
		"* Wrote Go services",
	}

	entries := ExtractExperience(lines)
	require.Len(t, entries, 2)
	assert.Equal(t, "Data Analyst", entries[0].Title)
	assert.Equal(t, "2017 - 2019", entries[0].Duration)
	assert.Equal(t, []string{"Built dashboards"}, entries[0].Responsibilities)
	assert.Equal(t, "Backend Developer", entries[1].Title)
	assert.Equal(t, "Hooli Labs", entries[1].Company)
	assert.Equal(t, "2019 to Present", entries[1].Duration)
}

func TestExtractExperiencePartialEntryIsKept(t *testing.T) {
	entries := ExtractExperience([]string{"Worked on billing"})
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Worked on billing"}, entries[0].Responsibilities)

	assert.Empty(t, ExtractExperience(nil))
	assert.NotNil(t, ExtractExperience(nil), "没有内容时返回空切片而不是nil")
}

func TestExperienceRuleOrder(t *testing.T) {
	cases := map[string]string{
		"Mar 2018 - Jun 2020":            "date_range",
		"2015 - 2016":                    "date_range",
		"Senior Software Engineer":       "title",
		"Globex Technologies":            "company",
		"Designed a billing system":      "responsibility",
		"Project Manager, Acme Pvt Ltd":  "title",
		"Acme Pvt Ltd, Bangalore, India": "company",
	}
	for line, want := range cases {
		assert.Equal(t, want, matchedRule(experienceRules, line), line)
	}
}

func TestExtractEducation(t *testing.T) {
	lines := []string{
		"B.Tech in Computer Science",
		"ABC Institute of Technology",
		"2016 - 2020",
		"CGPA: 8.5",
		"HSC",
		"XYZ School",
		"2016",
		"Percentage: 92",
	}

	entries := ExtractEducation(lines)
	require.Len(t, entries, 2)

	assert.Equal(t, "B.Tech in Computer Science", entries[0].Degree)
	assert.Equal(t, "ABC Institute of Technology", entries[0].Institution)
	assert.Equal(t, "2016 - 2020", entries[0].Year)
	assert.Equal(t, "8.5", entries[0].Score)

	assert.Equal(t, "HSC", entries[1].Degree)
	assert.Equal(t, "XYZ School", entries[1].Institution)
	assert.Equal(t, "2016", entries[1].Year)
	assert.Equal(t, "92", entries[1].Score)
}

func TestExtractEducationInstitutionFirst(t *testing.T) {
	lines := []string{
		"Stanford University",
		"Master of Science",
		"2012",
		"MIT College of Engineering",
		"Bachelor of Engineering",
	}

	entries := ExtractEducation(lines)
	require.Len(t, entries, 2)
	assert.Equal(t, "Stanford University", entries[0].Institution)
	assert.Equal(t, "Master of Science", entries[0].Degree)
	assert.Equal(t, "MIT College of Engineering", entries[1].Institution)
	assert.Equal(t, "Bachelor of Engineering", entries[1].Degree)
}

func TestEducationDegreeAbbreviationsAreCaseSensitive(t *testing.T) {
	assert.Equal(t, "degree", matchedRule(educationRules, "MBA, Finance"))
	assert.Equal(t, "degree", matchedRule(educationRules, "B.E Mechanical"))
	assert.Equal(t, "details", matchedRule(educationRules, "be ready to learn"), "小写的 be 不是学位缩写")
}

func TestExtractCertifications(t *testing.T) {
	lines := []string{
		"AWS Certified Solutions Architect",
		"Issued by Amazon Web Services",
		"March 2022",
		"Google Cloud Professional Data Engineer",
		"by Google",
		"2021",
	}

	entries := ExtractCertifications(lines)
	require.Len(t, entries, 2)
	assert.Equal(t, types.CertificationEntry{
		Name:   "AWS Certified Solutions Architect",
		Issuer: "Amazon Web Services",
		Date:   "March 2022",
	}, entries[0])
	assert.Equal(t, types.CertificationEntry{
		Name:   "Google Cloud Professional Data Engineer",
		Issuer: "Google",
		Date:   "2021",
	}, entries[1])
}

func TestExtractCertificationsNameAndIssuerOnOneLine(t *testing.T) {
	entries := ExtractCertifications([]string{"Kubernetes Administrator from CNCF", "Scrum Master by Scrum.org"})
	require.Len(t, entries, 2)
	assert.Equal(t, "CNCF", entries[0].Issuer)
	assert.Equal(t, "Scrum Master by Scrum.org", entries[1].Name)
	assert.Equal(t, "Scrum.org", entries[1].Issuer)
}
