package ingest

import (
	"encoding/json"
	"reflect"
	"sort"
	"testing"
)

func TestParseTypeCode(t *testing.T) {
	cases := []struct {
		raw  string
		want TypeCode
		ok   bool
	}{
		{"mcq", MCQ, true},
		{"  MCQ  ", MCQ, true},
		{"True_False", TrueFalse, true},
		{"fill_blank", FillBlank, true},
		{"essay", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseTypeCode(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseTypeCode(%q) = (%q, %v), want (%q, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeMatch_RoundTrip(t *testing.T) {
	row := RawRow{
		Position:      1,
		QuestionType:  "match",
		CorrectAnswer: "A1-B1,A2-B2",
	}
	row.Options[0] = "A1;A2"
	row.Options[1] = "B1;B2"

	got, err := Normalize(Match, row, Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	p, ok := got.(MatchPayload)
	if !ok {
		t.Fatalf("expected MatchPayload, got %T", got)
	}
	if !reflect.DeepEqual(p.ColumnA, []string{"A1", "A2"}) {
		t.Errorf("column_a = %v", p.ColumnA)
	}
	if !reflect.DeepEqual(p.ColumnB, []string{"B1", "B2"}) {
		t.Errorf("column_b = %v", p.ColumnB)
	}
	want := map[string]string{"A1": "B1", "A2": "B2"}
	if !reflect.DeepEqual(p.CorrectPairs, want) {
		t.Errorf("correct_pairs = %v, want %v", p.CorrectPairs, want)
	}
}

func TestNormalizeMatch_MalformedTokensDropped(t *testing.T) {
	row := RawRow{CorrectAnswer: "A1-B1,oops,A2-B2,"}
	got, err := Normalize(Match, row, Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	p := got.(MatchPayload)
	want := map[string]string{"A1": "B1", "A2": "B2"}
	if !reflect.DeepEqual(p.CorrectPairs, want) {
		t.Errorf("correct_pairs = %v, want %v", p.CorrectPairs, want)
	}
}

func TestNormalizeMatch_DuplicateKeys(t *testing.T) {
	row := RawRow{CorrectAnswer: "A1-B1,A1-B9"}

	got, err := Normalize(Match, row, Options{})
	if err != nil {
		t.Fatalf("expected no error in default mode, got: %v", err)
	}
	// 默认后值覆盖
	if v := got.(MatchPayload).CorrectPairs["A1"]; v != "B9" {
		t.Errorf("duplicate key kept %q, want last-seen B9", v)
	}

	_, err = Normalize(Match, row, Options{StrictMatchPairs: true})
	if _, ok := err.(*DuplicatePairKeyError); !ok {
		t.Errorf("strict mode: expected DuplicatePairKeyError, got %v", err)
	}
}

func TestNormalizeTrueFalse(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"TRUE", true},
		{"true", true},
		{"1", true},
		{" 1 ", true},
		{"no", false},
		{"false", false},
		{"0", false},
		{"", false},
		{"yes", false},
	}
	for _, c := range cases {
		got, err := Normalize(TrueFalse, RawRow{QuestionText: "stmt", CorrectAnswer: c.raw}, Options{})
		if err != nil {
			t.Fatalf("Normalize(true_false, %q): %v", c.raw, err)
		}
		if got.(TrueFalsePayload).CorrectAnswer != c.want {
			t.Errorf("true_false(%q) = %v, want %v", c.raw, !c.want, c.want)
		}
	}
}

func TestNormalizeFillBlank_EmptyAnswerSplitsToSingleEmpty(t *testing.T) {
	got, err := Normalize(FillBlank, RawRow{QuestionText: "The capital of France is ___"}, Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	p := got.(FillBlankPayload)
	// 缺失字段按空串切分，得到 [""] 而不是报错
	if !reflect.DeepEqual(p.CorrectAnswers, []string{""}) {
		t.Errorf("correct_answers = %#v, want [\"\"]", p.CorrectAnswers)
	}
}

func TestNormalizeMCQ_AbsentOptionsAreNull(t *testing.T) {
	row := RawRow{QuestionText: "2+2?", CorrectAnswer: "4"}
	row.Options[0] = "3"
	row.Options[1] = "4"

	got, err := Normalize(MCQ, row, Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	p := got.(MCQPayload)
	if p.Options[2] != nil || p.Options[3] != nil {
		t.Errorf("absent options should be nil, got %v", p.Options)
	}
	if p.CorrectAnswer == nil || *p.CorrectAnswer != "4" {
		t.Errorf("correct_answer = %v", p.CorrectAnswer)
	}
}

// 每种题型的 payload 序列化后键集与约定结构完全一致，无多余键也无缺失键
func TestPayloadShapes(t *testing.T) {
	row := RawRow{
		QuestionType:  "x",
		QuestionText:  "text",
		CorrectAnswer: "a-b",
		ExtraData:     "k1,k2",
	}
	row.Options[0] = "o1"
	row.Options[1] = "o2"

	wantKeys := map[TypeCode][]string{
		MCQ:         {"correct_answer", "options"},
		FillBlank:   {"correct_answers", "sentence"},
		Match:       {"column_a", "column_b", "correct_pairs"},
		OwnResponse: {"expected_keywords"},
		TrueFalse:   {"correct_answer", "statement"},
		OneWord:     {"correct_answer", "definition"},
	}

	for code, want := range wantKeys {
		payload, err := Normalize(code, row, Options{})
		if err != nil {
			t.Fatalf("%s: %v", code, err)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("%s: marshal: %v", code, err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("%s: unmarshal: %v", code, err)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if !reflect.DeepEqual(keys, want) {
			t.Errorf("%s payload keys = %v, want %v", code, keys, want)
		}
	}
}
