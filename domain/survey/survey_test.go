package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallygood83/mathemotion/internal/errors"
)

func TestCanonicalNameFormLabels(t *testing.T) {
	assert.Equal(t, string(FieldStudentName), CanonicalName("🧑‍🎓 학생 이름을 입력하세요."))
	assert.Equal(t, string(FieldFocus), CanonicalName("🎯 지금 수업에 집중하고 있어요. (1점: 전혀 집중하지 못해요 ~ 5점: 완전히 집중하고 있어요)"))
	assert.Equal(t, string(FieldTimestamp), CanonicalName("타임스탬프"))
}

func TestCanonicalNameShortLabels(t *testing.T) {
	for _, f := range AllFields {
		assert.Equal(t, string(f), CanonicalName(f.Label()), f.Label())
	}
}

func TestCanonicalNamePassesUnknownLabelsThrough(t *testing.T) {
	for _, label := range []string{"", "이메일 주소", " 학생 이름", "Focus", string(FieldFocus), "🎯"} {
		if _, known := LookupLabel(label); known {
			continue
		}
		assert.Equal(t, label, CanonicalName(label))
	}
	// canonical names are not in the table but still resolve to themselves
	assert.Equal(t, "focus", CanonicalName("focus"))
}

func TestItemFieldOrder(t *testing.T) {
	require.Len(t, ItemFields, 10)
	assert.Equal(t, []string{"수업 기대도", "긴장도", "재미 예상도", "자신감", "집중도",
		"즐거움", "자신감 변화", "재미 변화", "긴장도 변화", "이해도"}, Labels(ItemFields))
	assert.Equal(t, []Field{FieldConfidenceChange, FieldFunChange, FieldNervousnessChange}, ChangeFields)
	assert.True(t, FieldStudentID.IsNumeric())
	assert.False(t, FieldStudentID.IsItem())
	assert.False(t, FieldSummaryText.IsNumeric())
}

func TestCellMissingIsNotZero(t *testing.T) {
	_, ok := Missing().Float()
	assert.False(t, ok)
	v, ok := Number(0, "0").Float()
	assert.True(t, ok)
	assert.Zero(t, v)
	assert.True(t, Text("").IsMissing())
	assert.Equal(t, "", Missing().String())
	assert.Equal(t, "2.5", Number(2.5, "").String())
}

func TestRecordLookupUsesFirstDuplicateColumn(t *testing.T) {
	schema := NewSchema([]string{"student_name", "focus", "focus"})
	rec, err := NewRecord(schema, []Cell{Text("김철수"), Number(4, "4"), Number(1, "1")})
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Len())
	v, ok := rec.Score(FieldFocus)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
	assert.Equal(t, 0.0, rec.ScoreOrZero(FieldEnjoyment))
	assert.Equal(t, "김철수", rec.StudentName())

	_, err = NewRecord(schema, []Cell{Missing()})
	assert.Error(t, err)
}

func TestTableStudentsAndLookup(t *testing.T) {
	schema := NewSchema([]string{"student_name", "focus"})
	mk := func(name string, focus float64) Record {
		rec, err := NewRecord(schema, []Cell{Text(name), Number(focus, "")})
		require.NoError(t, err)
		return rec
	}
	table := &Table{Schema: schema, Records: []Record{mk("이영희", 2), mk("김철수", 5), mk("이영희", 3), mk("", 1)}}

	assert.Equal(t, []string{"김철수", "이영희"}, table.Students())
	rec, ok := table.FindStudent("이영희")
	require.True(t, ok)
	assert.Equal(t, 2.0, rec.ScoreOrZero(FieldFocus))
	_, ok = table.FindStudent("박민준")
	assert.False(t, ok)
	_, ok = table.FindStudent("")
	assert.False(t, ok)
}

func TestTableWarning(t *testing.T) {
	table := &Table{Schema: NewSchema(nil)}
	assert.NoError(t, table.Warning())

	table.Absent = []Field{FieldFocus, FieldUnderstanding}
	err := table.Warning()
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaIncomplete, errors.GetCode(err))
	assert.Contains(t, err.Error(), "focus, understanding")
}
