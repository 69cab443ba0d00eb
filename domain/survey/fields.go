// Package survey holds the canonical shape of lesson-survey data: field identifiers,
// the fixed header label table, and the Cell/Record/Table types every source is
// normalized into.
package survey

// Field is a stable canonical column identifier, independent of the label a form
// or spreadsheet uses for the same question.
type Field string

const (
	FieldTimestamp   Field = "timestamp"
	FieldStudentID   Field = "student_id"
	FieldStudentName Field = "student_name"

	FieldLessonExpectation Field = "lesson_expectation"
	FieldNervousness       Field = "nervousness"
	FieldExpectedFun       Field = "expected_fun"
	FieldConfidence        Field = "confidence"
	FieldFocus             Field = "focus"
	FieldEnjoyment         Field = "enjoyment"
	FieldConfidenceChange  Field = "confidence_change"
	FieldFunChange         Field = "fun_change"
	FieldNervousnessChange Field = "nervousness_change"
	FieldUnderstanding     Field = "understanding"

	FieldSummaryText    Field = "summary_text"
	FieldSelfAssessment Field = "self_assessment"
)

// ItemFields are the ten 1-5 survey items in their fixed display order.
var ItemFields = []Field{
	FieldLessonExpectation,
	FieldNervousness,
	FieldExpectedFun,
	FieldConfidence,
	FieldFocus,
	FieldEnjoyment,
	FieldConfidenceChange,
	FieldFunChange,
	FieldNervousnessChange,
	FieldUnderstanding,
}

// ChangeFields are the before/after items shown on the change chart.
var ChangeFields = []Field{
	FieldConfidenceChange,
	FieldFunChange,
	FieldNervousnessChange,
}

// NumericFields are coerced to numbers during normalization.
var NumericFields = append([]Field{FieldStudentID}, ItemFields...)

// AllFields lists every canonical field in export order.
var AllFields = append(append([]Field{FieldTimestamp, FieldStudentID, FieldStudentName}, ItemFields...),
	FieldSummaryText, FieldSelfAssessment)

var displayLabels = map[Field]string{
	FieldTimestamp:         "타임스탬프",
	FieldStudentID:         "학번",
	FieldStudentName:       "학생 이름",
	FieldLessonExpectation: "수업 기대도",
	FieldNervousness:       "긴장도",
	FieldExpectedFun:       "재미 예상도",
	FieldConfidence:        "자신감",
	FieldFocus:             "집중도",
	FieldEnjoyment:         "즐거움",
	FieldConfidenceChange:  "자신감 변화",
	FieldFunChange:         "재미 변화",
	FieldNervousnessChange: "긴장도 변화",
	FieldUnderstanding:     "이해도",
	FieldSummaryText:       "수업 요약",
	FieldSelfAssessment:    "자기 평가",
}

// Label returns the Korean display label for a field, or the field name itself.
func (f Field) Label() string {
	if label, ok := displayLabels[f]; ok {
		return label
	}
	return string(f)
}

// IsItem reports whether f is one of the ten survey items.
func (f Field) IsItem() bool {
	for _, item := range ItemFields {
		if item == f {
			return true
		}
	}
	return false
}

// IsNumeric reports whether f is coerced to a number.
func (f Field) IsNumeric() bool {
	return f == FieldStudentID || f.IsItem()
}

// Labels maps fields to their display labels, preserving order.
func Labels(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label()
	}
	return out
}

// Names converts fields to plain strings, preserving order.
func Names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
