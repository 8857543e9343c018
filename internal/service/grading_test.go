package service

import (
	"college_edu_backend/internal/ingest"
	"encoding/json"
	"math"
	"testing"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func strPtr(s string) *string { return &s }

func TestGradeAnswer_MCQ(t *testing.T) {
	payload := mustJSON(t, ingest.MCQPayload{CorrectAnswer: strPtr("4")})

	cases := []struct {
		given string
		want  float64
	}{
		{"4", 2},
		{" 4 ", 2},
		{"3", 0},
		{"", 0},
	}
	for _, c := range cases {
		score, correct, err := GradeAnswer(ingest.MCQ, payload, c.given, 2)
		if err != nil {
			t.Fatalf("GradeAnswer(%q): %v", c.given, err)
		}
		if score != c.want || correct != (c.want > 0) {
			t.Errorf("GradeAnswer(%q) = %v, want %v", c.given, score, c.want)
		}
	}
}

func TestGradeAnswer_TrueFalse(t *testing.T) {
	payload := mustJSON(t, ingest.TrueFalsePayload{Statement: strPtr("stmt"), CorrectAnswer: true})

	cases := []struct {
		given string
		want  float64
	}{
		{"true", 1},
		{"TRUE", 1},
		{"1", 1},
		{"false", 0},
		{"no", 0},
	}
	for _, c := range cases {
		score, _, err := GradeAnswer(ingest.TrueFalse, payload, c.given, 1)
		if err != nil {
			t.Fatalf("GradeAnswer(%q): %v", c.given, err)
		}
		if score != c.want {
			t.Errorf("true_false(%q) = %v, want %v", c.given, score, c.want)
		}
	}
}

func TestGradeAnswer_FillBlank(t *testing.T) {
	payload := mustJSON(t, ingest.FillBlankPayload{
		Sentence:       strPtr("Paris is the capital of ___"),
		CorrectAnswers: []string{"France", "FRANCE"},
	})

	if score, _, _ := GradeAnswer(ingest.FillBlank, payload, "france", 3); score != 3 {
		t.Errorf("accepted answer scored %v, want 3", score)
	}
	if score, _, _ := GradeAnswer(ingest.FillBlank, payload, "Germany", 3); score != 0 {
		t.Errorf("wrong answer scored %v, want 0", score)
	}
}

func TestGradeAnswer_MatchProportional(t *testing.T) {
	payload := mustJSON(t, ingest.MatchPayload{
		ColumnA:      []string{"A1", "A2"},
		ColumnB:      []string{"B1", "B2"},
		CorrectPairs: map[string]string{"A1": "B1", "A2": "B2"},
	})

	score, correct, err := GradeAnswer(ingest.Match, payload, "A1-B1,A2-B2", 4)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if score != 4 || !correct {
		t.Errorf("full match = (%v, %v), want (4, true)", score, correct)
	}

	score, correct, _ = GradeAnswer(ingest.Match, payload, "A1-B1,A2-B9", 4)
	if score != 2 || correct {
		t.Errorf("half match = (%v, %v), want (2, false)", score, correct)
	}
}

func TestGradeAnswer_OwnResponseKeywordRatio(t *testing.T) {
	payload := mustJSON(t, ingest.OwnResponsePayload{
		ExpectedKeywords: []string{"memory", "address", "pointer"},
	})

	score, _, err := GradeAnswer(ingest.OwnResponse, payload, "a pointer stores a memory location", 3)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// 命中 memory 和 pointer，2/3
	if math.Abs(score-2) > 1e-9 {
		t.Errorf("score = %v, want 2", score)
	}
}

func TestGradeAnswer_EmptyAnswerNeverScores(t *testing.T) {
	payload := mustJSON(t, ingest.TrueFalsePayload{CorrectAnswer: false})
	score, correct, err := GradeAnswer(ingest.TrueFalse, payload, "", 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// 未作答即便与 false 相等也不得分
	if score != 0 || correct {
		t.Errorf("empty answer = (%v, %v), want (0, false)", score, correct)
	}
}

func TestRedactPayload(t *testing.T) {
	payload := mustJSON(t, ingest.MCQPayload{CorrectAnswer: strPtr("4")})
	redacted, err := RedactPayload(ingest.MCQ, payload)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, leaked := redacted["correct_answer"]; leaked {
		t.Errorf("correct_answer leaked to student view")
	}
	if _, ok := redacted["options"]; !ok {
		t.Errorf("options missing from student view")
	}
}
