package service

import (
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var importHeaders = []string{
	"Question_Type", "Question_Text", "Option_A", "Option_B", "Option_C", "Option_D",
	"Correct_Answer", "Extra_Data", "Marks", "Order_No",
}

// buildImportSheet 在内存中生成测试用 xlsx，首行为表头
func buildImportSheet(t *testing.T, rows [][]string) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	hdr := make([]interface{}, len(importHeaders))
	for i, h := range importHeaders {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		t.Fatalf("set header row: %v", err)
	}
	for i, row := range rows {
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &vals); err != nil {
			t.Fatalf("set row %d: %v", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

// typeDict 以固定映射充当题型字典
type typeDict map[string]uint

func (d typeDict) ResolveTypes(_ context.Context, codes []string) (map[string]uint, error) {
	out := make(map[string]uint, len(codes))
	for _, c := range codes {
		if id, ok := d[c]; ok {
			out[c] = id
		}
	}
	return out, nil
}

// fakeImportDB 以内存切片模拟导入事务：回调失败时丢弃本次暂存的写入，
// 成功时才并入已提交状态
type fakeImportDB struct {
	assignments []model.Assignment
	subTopics   []model.SubTopic
	questions   []model.Question
	uploads     []model.QuestionUpload

	nextID         uint
	txStarted      int
	failQuestionAt int // 第 N 次写题时注入错误，0 表示不注入
}

type fakeImportTx struct {
	db          *fakeImportDB
	assignments []model.Assignment
	subTopics   []model.SubTopic
	questions   []model.Question
	uploads     []model.QuestionUpload
	created     int
}

func (db *fakeImportDB) inTx(_ context.Context, fn func(importStore) error) error {
	db.txStarted++
	tx := &fakeImportTx{db: db}
	if err := fn(tx); err != nil {
		return err
	}
	db.assignments = append(db.assignments, tx.assignments...)
	db.subTopics = append(db.subTopics, tx.subTopics...)
	db.questions = append(db.questions, tx.questions...)
	db.uploads = append(db.uploads, tx.uploads...)
	return nil
}

func (tx *fakeImportTx) allocID() uint {
	tx.db.nextID++
	return tx.db.nextID
}

func (tx *fakeImportTx) FindAssignment(departmentID uint, number int) (*model.Assignment, error) {
	for _, set := range [][]model.Assignment{tx.db.assignments, tx.assignments} {
		for i := range set {
			if set[i].DepartmentID == departmentID && set[i].AssignmentNumber == number {
				return &set[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (tx *fakeImportTx) CreateAssignment(a *model.Assignment) error {
	a.ID = tx.allocID()
	tx.assignments = append(tx.assignments, *a)
	return nil
}

func (tx *fakeImportTx) FindSubTopic(topicID uint, name string) (*model.SubTopic, error) {
	for _, set := range [][]model.SubTopic{tx.db.subTopics, tx.subTopics} {
		for i := range set {
			if set[i].TopicID == topicID && set[i].Name == name {
				return &set[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (tx *fakeImportTx) CreateSubTopic(st *model.SubTopic) error {
	st.ID = tx.allocID()
	tx.subTopics = append(tx.subTopics, *st)
	return nil
}

func (tx *fakeImportTx) CreateQuestion(q *model.Question) error {
	tx.created++
	if tx.db.failQuestionAt > 0 && tx.created == tx.db.failQuestionAt {
		return errors.New("insert failed")
	}
	q.ID = tx.allocID()
	tx.questions = append(tx.questions, *q)
	return nil
}

func (tx *fakeImportTx) CreateUpload(u *model.QuestionUpload) error {
	u.ID = fmt.Sprintf("upload-%d", tx.allocID())
	tx.uploads = append(tx.uploads, *u)
	return nil
}

func newImportTestService(db *fakeImportDB) *QuestionService {
	s := &QuestionService{
		Cfg: &config.Config{Ingest: config.IngestConfig{MaxUploadMB: 10}},
	}
	s.lookup = typeDict{
		"mcq": 1, "fill_blank": 2, "match": 3,
		"own_response": 4, "true_false": 5, "one_word": 6,
	}
	s.inTx = db.inTx
	return s
}

func assignmentImportTarget() *importTarget {
	return &importTarget{
		kind:             ingest.ScopeAssignment,
		department:       &model.Department{BaseModel: model.BaseModel{ID: 3}},
		assignmentNumber: 7,
		topicName:        "Computer Networks",
		startDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		endDate:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

// 整批失败时事务从未开启，新作业不会作为无题孤儿留下
func TestRunImport_FailedBatchCreatesNoParent(t *testing.T) {
	db := &fakeImportDB{}
	svc := newImportTestService(db)

	sheet := buildImportSheet(t, [][]string{
		{"mcq", "2+2?", "3", "4", "5", "6", "4", "", "2", ""},
		{"essay", "describe TCP", "", "", "", "", "", "", "", ""},
	})

	_, err := svc.runImport(context.Background(), assignmentImportTarget(), "batch.xlsx", sheet, false, 1)
	var batchErr *ingest.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %v", err)
	}
	if db.txStarted != 0 {
		t.Errorf("transaction started %d times, want 0", db.txStarted)
	}
	if len(db.assignments) != 0 || len(db.questions) != 0 || len(db.uploads) != 0 {
		t.Errorf("failed batch persisted state: %d assignments, %d questions, %d uploads",
			len(db.assignments), len(db.questions), len(db.uploads))
	}
}

// 事务内写题失败时整体回滚，同事务里新建的作业一并消失
func TestRunImport_InsertFailureRollsBackParent(t *testing.T) {
	db := &fakeImportDB{failQuestionAt: 2}
	svc := newImportTestService(db)

	sheet := buildImportSheet(t, [][]string{
		{"mcq", "2+2?", "3", "4", "5", "6", "4", "", "2", ""},
		{"true_false", "The sky is green", "", "", "", "", "TRUE", "", "", ""},
	})

	_, err := svc.runImport(context.Background(), assignmentImportTarget(), "batch.xlsx", sheet, false, 1)
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if db.txStarted != 1 {
		t.Errorf("transaction started %d times, want 1", db.txStarted)
	}
	if len(db.assignments) != 0 {
		t.Errorf("rollback left %d orphan assignments", len(db.assignments))
	}
	if len(db.questions) != 0 || len(db.uploads) != 0 {
		t.Errorf("rollback left %d questions, %d uploads", len(db.questions), len(db.uploads))
	}
}

// 再次导入同一 scope 追加题目，复用既有作业而不新建
func TestRunImport_ReingestSameScopeIsAdditive(t *testing.T) {
	db := &fakeImportDB{}
	svc := newImportTestService(db)

	first := buildImportSheet(t, [][]string{
		{"mcq", "2+2?", "3", "4", "5", "6", "4", "", "2", ""},
		{"true_false", "The sky is green", "", "", "", "", "TRUE", "", "", ""},
	})
	res1, err := svc.runImport(context.Background(), assignmentImportTarget(), "first.xlsx", first, false, 1)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := buildImportSheet(t, [][]string{
		{"one_word", "Device that forwards packets between networks", "", "", "", "", "router", "", "", ""},
	})
	res2, err := svc.runImport(context.Background(), assignmentImportTarget(), "second.xlsx", second, false, 1)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if len(db.assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(db.assignments))
	}
	refID := db.assignments[0].ID
	if res1.Scope.ReferenceID != refID || res2.Scope.ReferenceID != refID {
		t.Errorf("scope reference = %d/%d, want %d", res1.Scope.ReferenceID, res2.Scope.ReferenceID, refID)
	}
	if len(db.questions) != 3 {
		t.Fatalf("expected 3 questions after re-ingest, got %d", len(db.questions))
	}
	for i, q := range db.questions {
		if q.AssignmentID == nil || *q.AssignmentID != refID {
			t.Errorf("question %d assignment = %v, want %d", i, q.AssignmentID, refID)
		}
		if q.SubTopicID != nil {
			t.Errorf("question %d unexpectedly bound to sub_topic %d", i, *q.SubTopicID)
		}
	}
	if len(db.uploads) != 2 {
		t.Fatalf("expected 2 upload records, got %d", len(db.uploads))
	}
	for i, u := range db.uploads {
		if u.ReferenceID != refID || u.ScopeKind != string(ingest.ScopeAssignment) {
			t.Errorf("upload %d = %s/%d, want %s/%d", i, u.ScopeKind, u.ReferenceID, ingest.ScopeAssignment, refID)
		}
	}
	if res2.Accepted != 1 || res2.UploadID == "" {
		t.Errorf("second result = %+v", res2)
	}
}

// 子主题 scope 同样复用既有父实体
func TestRunImport_SubTopicReuseExistingParent(t *testing.T) {
	db := &fakeImportDB{
		subTopics: []model.SubTopic{{BaseModel: model.BaseModel{ID: 9}, TopicID: 5, Name: "Routing"}},
	}
	svc := newImportTestService(db)

	target := &importTarget{
		kind:         ingest.ScopeSubTopic,
		department:   &model.Department{BaseModel: model.BaseModel{ID: 3}},
		topic:        &model.Topic{BaseModel: model.BaseModel{ID: 5}},
		subTopicName: "Routing",
	}
	sheet := buildImportSheet(t, [][]string{
		{"mcq", "2+2?", "3", "4", "5", "6", "4", "", "", ""},
	})

	res, err := svc.runImport(context.Background(), target, "routing.xlsx", sheet, false, 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(db.subTopics) != 1 {
		t.Fatalf("expected existing sub_topic to be reused, got %d", len(db.subTopics))
	}
	if res.Scope.ReferenceID != 9 {
		t.Errorf("scope reference = %d, want 9", res.Scope.ReferenceID)
	}
	if len(db.questions) != 1 || db.questions[0].SubTopicID == nil || *db.questions[0].SubTopicID != 9 {
		t.Errorf("questions = %+v", db.questions)
	}
}
