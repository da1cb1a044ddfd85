package schemas

import (
	"encoding/json"
	"testing"

	"resume-screener/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *types.CandidateRecord {
	r := types.NewCandidateRecord()
	r.Name = "Jane Smith"
	r.Contact = types.ContactInfo{Email: "jane.smith@example.com", Phone: "(555) 123-4567", PhoneE164: "+15551234567"}
	r.Education = []types.EducationEntry{{Degree: "B.S. Computer Science", Institution: "MIT", Year: "2019"}}
	r.Experience = []types.ExperienceEntry{{Title: "Engineer", Company: "Acme", Responsibilities: []string{"Built APIs"}}}
	r.Skills = types.NewCategorizedSkillSet(map[string][]string{"programming_languages": {"go"}})
	return r
}

func TestValidateRecord_Valid(t *testing.T) {
	v := NewRecordValidator()
	assert.NoError(t, v.ValidateRecord(validRecord()))

	flat := validRecord()
	flat.Skills = types.NewFlatSkillSet([]string{"Go"})
	flat.Contact = types.ContactInfo{}
	assert.NoError(t, v.ValidateRecord(flat))
}

func TestValidateRecord_MissingName(t *testing.T) {
	r := validRecord()
	r.Name = ""

	err := NewRecordValidator().ValidateRecord(r)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.FieldErrors, 1)
	assert.Equal(t, "name", ve.FieldErrors[0].Field)
	assert.Contains(t, err.Error(), "name: ")
}

func TestValidateRecord_BadContact(t *testing.T) {
	r := validRecord()
	r.Contact.Email = "not-an-email"
	r.Contact.PhoneE164 = "5551234567"

	err := NewRecordValidator().ValidateRecord(r)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := []string{}
	for _, fe := range ve.FieldErrors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"contact_info.email", "contact_info.phone_e164"}, fields)
}

func TestValidateJSON_TypeMismatch(t *testing.T) {
	data, err := json.Marshal(map[string]interface{}{
		"name":           "Jane",
		"contact_info":   map[string]string{},
		"summary":        "",
		"education":      "MIT",
		"experience":     []interface{}{},
		"certifications": []interface{}{},
		"skills":         []string{"go"},
	})
	require.NoError(t, err)

	err = NewRecordValidator().ValidateJSON(data)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "education", ve.FieldErrors[0].Field)
}

func TestValidateRecord_Nil(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, NewRecordValidator().ValidateRecord(nil), &ve)
	assert.Equal(t, "(root)", ve.FieldErrors[0].Field)
}

func TestSchemaIsValidJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(Schema(), &doc))
	assert.Equal(t, "CandidateRecord", doc["title"])
}
