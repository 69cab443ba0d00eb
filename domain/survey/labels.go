package survey

// formLabels are the question texts of the Google Form the survey is collected
// with, exactly as they appear in the response sheet header.
var formLabels = map[string]Field{
	"타임스탬프": FieldTimestamp,
	"📌 학생 번호를 선택하세요.": FieldStudentID,
	"🧑‍🎓 학생 이름을 입력하세요.": FieldStudentName,
	"🤩 오늘 수학 수업이 기대돼요. (1점: 전혀 기대되지 않아요 ~ 5점: 매우 기대돼요)": FieldLessonExpectation,
	"😨 오늘 수학 수업이 좀 긴장돼요. (1점: 전혀 긴장되지 않아요 ~ 5점: 매우 긴장돼요)": FieldNervousness,
	"🎲 오늘 배우는 수학 내용이 재미있을 것 같아요. (1점: 전혀 재미없을 것 같아요 ~ 5점: 매우 재미있을 것 같아요)": FieldExpectedFun,
	"💪 오늘 수업을 잘 해낼 자신이 있어요. (1점: 전혀 자신 없어요 ~ 5점: 매우 자신 있어요)": FieldConfidence,
	"🎯 지금 수업에 집중하고 있어요. (1점: 전혀 집중하지 못해요 ~ 5점: 완전히 집중하고 있어요)": FieldFocus,
	"😆 지금 수업이 즐거워요. (1점: 전혀 즐겁지 않아요 ~ 5점: 매우 즐거워요)": FieldEnjoyment,
	"🌟 이제 수학 공부에 자신감이 더 생겼어요. (1점: 전혀 그렇지 않아요 ~ 5점: 매우 그래요)": FieldConfidenceChange,
	"🎉 수업 후에 수학이 전보다 더 재미있어졌어요. (1점: 전혀 그렇지 않아요 ~ 5점: 매우 그래요)": FieldFunChange,
	"😌 수업 후에는 수학 시간에 전보다 덜 긴장돼요. (1점: 전혀 그렇지 않아요 ~ 5점: 매우 그래요)": FieldNervousnessChange,
	"🧠 오늘 수업 내용을 잘 이해했어요. (1점: 전혀 이해하지 못했어요 ~ 5점: 매우 잘 이해했어요)": FieldUnderstanding,
	"📋 ✏️ 오늘 배운 수학 내용을 한 줄로 요약해 보세요.": FieldSummaryText,
	"📋 💭 오늘 수업에서 스스로 잘한 점이나 아쉬운 점을 한 문장으로 적어 보세요.": FieldSelfAssessment,
}

// CanonicalName maps a raw header label to its canonical column name. Form
// question texts and the short Korean display labels resolve to their field;
// any other label is returned unchanged so unfamiliar columns survive
// normalization instead of failing it.
func CanonicalName(label string) string {
	if field, ok := LookupLabel(label); ok {
		return string(field)
	}
	return label
}

// LookupLabel reports the canonical field for a known raw label.
func LookupLabel(label string) (Field, bool) {
	if field, ok := formLabels[label]; ok {
		return field, true
	}
	if field, ok := shortLabels[label]; ok {
		return field, true
	}
	return "", false
}

var shortLabels = func() map[string]Field {
	m := make(map[string]Field, len(displayLabels))
	for field, label := range displayLabels {
		m[label] = field
	}
	return m
}()
