package ingest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeLookup 以固定映射充当题型字典
type fakeLookup map[string]uint

func (f fakeLookup) ResolveTypes(_ context.Context, codes []string) (map[string]uint, error) {
	out := make(map[string]uint, len(codes))
	for _, c := range codes {
		if id, ok := f[c]; ok {
			out[c] = id
		}
	}
	return out, nil
}

func allTypes() fakeLookup {
	return fakeLookup{
		"mcq": 1, "fill_blank": 2, "match": 3,
		"own_response": 4, "true_false": 5, "one_word": 6,
	}
}

func testScope() Scope {
	return Scope{Kind: ScopeAssignment, ReferenceID: 42}
}

func TestRun_HappyPath(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "2+2?", "3", "4", "5", "6", "4", "", "2", ""},
		{"true_false", "The sky is green", "", "", "", "", "TRUE", "", "", "10"},
		{"match", "", "A1;A2", "B1;B2", "", "", "A1-B1,A2-B2", "", "", ""},
	})

	report, err := Run(context.Background(), r, testScope(), allTypes(), Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if report.RowsProcessed != 3 {
		t.Errorf("rows processed = %d, want 3", report.RowsProcessed)
	}
	if len(report.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(report.Questions))
	}

	q0 := report.Questions[0]
	if q0.QuestionTypeID != 1 || q0.Marks != 2 || q0.OrderNo != 1 {
		t.Errorf("q0 = %+v", q0)
	}
	if q0.Scope != testScope() {
		t.Errorf("q0 scope = %+v", q0.Scope)
	}

	// 显式 Order_No 保持原值，缺省 Marks 为 1
	q1 := report.Questions[1]
	if q1.OrderNo != 10 || q1.Marks != 1 {
		t.Errorf("q1 = %+v", q1)
	}

	// match 题干允许缺省
	q2 := report.Questions[2]
	if q2.QuestionText != nil {
		t.Errorf("match question_text = %v, want nil", *q2.QuestionText)
	}
	if q2.OrderNo != 3 {
		t.Errorf("q2 order_no = %d, want file position 3", q2.OrderNo)
	}
}

func TestRun_UnknownTypeAbortsBatch(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "q1", "", "", "", "", "a", "", "", ""},
		{"essay", "q2", "", "", "", "", "", "", "", ""},
		{"mcq", "q3", "", "", "", "", "a", "", "", ""},
	})

	_, err := Run(context.Background(), r, testScope(), allTypes(), Options{})
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %v", err)
	}
	if batchErr.First.Position != 2 {
		t.Errorf("failing row = %d, want 2", batchErr.First.Position)
	}
	var typeErr *InvalidQuestionTypeError
	if !errors.As(batchErr.First.Err, &typeErr) || typeErr.Code != "essay" {
		t.Errorf("expected InvalidQuestionTypeError(essay), got %v", batchErr.First.Err)
	}
	if batchErr.Accepted != 2 {
		t.Errorf("accepted = %d, want 2", batchErr.Accepted)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error should name the row: %v", err)
	}
}

func TestRun_ContinueOnRowError(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "q1", "", "", "", "", "a", "", "", ""},
		{"essay", "q2", "", "", "", "", "", "", "", ""},
		{"mcq", "", "", "", "", "", "a", "", "", ""},
		{"one_word", "define recursion", "", "", "", "", "recursion", "", "", ""},
	})

	report, err := Run(context.Background(), r, testScope(), allTypes(), Options{ContinueOnRowError: true})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(report.Questions) != 2 {
		t.Errorf("accepted = %d, want 2", len(report.Questions))
	}
	if len(report.Rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(report.Rejected))
	}
	if report.Rejected[0].Position != 2 || report.Rejected[1].Position != 3 {
		t.Errorf("rejected positions = %v", report.Rejected)
	}
	var missing *MissingFieldError
	if !errors.As(report.Rejected[1].Err, &missing) || missing.Field != "Question_Text" {
		t.Errorf("expected MissingFieldError(Question_Text), got %v", report.Rejected[1].Err)
	}
}

func TestRun_MissingQuestionType(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"", "q1", "", "", "", "", "a", "", "", ""},
	})

	_, err := Run(context.Background(), r, testScope(), allTypes(), Options{})
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %v", err)
	}
	var missing *MissingFieldError
	if !errors.As(batchErr.First.Err, &missing) || missing.Field != "Question_Type" {
		t.Errorf("expected MissingFieldError(Question_Type), got %v", batchErr.First.Err)
	}
}

func TestRun_DuplicateOrderNoPreserved(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "q1", "", "", "", "", "a", "", "", "5"},
		{"mcq", "q2", "", "", "", "", "a", "", "", "5"},
	})

	report, err := Run(context.Background(), r, testScope(), allTypes(), Options{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(report.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(report.Questions))
	}
	// 重复 Order_No 均接受，文件顺序保持
	if report.Questions[0].OrderNo != 5 || report.Questions[1].OrderNo != 5 {
		t.Errorf("order_no values = %d, %d", report.Questions[0].OrderNo, report.Questions[1].OrderNo)
	}
	if *report.Questions[0].QuestionText != "q1" || *report.Questions[1].QuestionText != "q2" {
		t.Errorf("file order not preserved")
	}
}

// 相同字节流对不同 scope 产出相同的 payload 序列（纯函数性质）
func TestRun_DeterministicAcrossScopes(t *testing.T) {
	rows := [][]string{
		{"mcq", "2+2?", "3", "4", "", "", "4", "", "", ""},
		{"fill_blank", "Paris is the capital of ___", "", "", "", "", "France, FRANCE", "", "", ""},
		{"own_response", "explain pointers", "", "", "", "", "", "memory,address", "", ""},
	}

	run := func(scope Scope) *Report {
		report, err := Run(context.Background(), buildSheet(t, sheetHeaders, rows), scope, allTypes(), Options{})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return report
	}

	a := run(Scope{Kind: ScopeAssignment, ReferenceID: 1})
	b := run(Scope{Kind: ScopeSubTopic, ReferenceID: 99})

	if len(a.Questions) != len(b.Questions) {
		t.Fatalf("question counts differ: %d vs %d", len(a.Questions), len(b.Questions))
	}
	for i := range a.Questions {
		qa, qb := a.Questions[i], b.Questions[i]
		qa.Scope, qb.Scope = Scope{}, Scope{}
		if !reflect.DeepEqual(qa, qb) {
			t.Errorf("question %d differs across scopes: %+v vs %+v", i, qa, qb)
		}
	}
}
