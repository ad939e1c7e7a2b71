package header

import "strings"

// Field is a canonical logical field a header row can carry.
type Field string

const (
	FieldPatient   Field = "patient"
	FieldEncounter Field = "encounter"
	FieldAuthor    Field = "author"
	FieldSource    Field = "source"
	FieldAuthored  Field = "authored"
	FieldRecordID  Field = "qr_id"
)

// fieldAliases maps each canonical field to its accepted column names, in
// resolution order. Data-driven on purpose: adding an alias for a new
// extraction query needs no code change elsewhere.
var fieldAliases = map[Field][]string{
	FieldPatient:   {"patient", "patientid", "patient_id", "subject", "subjectid"},
	FieldEncounter: {"encounter", "encounterid", "encounter_id"},
	FieldAuthor:    {"author", "authorid", "author_id", "practitioner", "practitionerid"},
	FieldSource:    {"source", "sourceid", "source_id", "src"},
	FieldAuthored:  {"authored", "authoredon", "date"},
	FieldRecordID:  {"qr_id", "questionnaireresponseid", "qrid"},
}

// Resolve returns the first non-empty, non-placeholder value among the
// field's aliases, or "" when none is present. Values like "nan" left
// behind by dataframe exports count as missing.
func (r Row) Resolve(field Field) string {
	for _, alias := range fieldAliases[field] {
		v := strings.TrimSpace(r[alias])
		if v == "" || strings.EqualFold(v, "nan") {
			continue
		}
		return v
	}
	return ""
}
