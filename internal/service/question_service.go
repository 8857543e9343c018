package service

import (
	"bytes"
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/util"
	"college_edu_backend/pkg/logger"
	"college_edu_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionService struct {
	Questions   *repository.QuestionRepository
	Types       *repository.QuestionTypeRepository
	Departments *repository.DepartmentRepository
	Topics      *repository.TopicRepository
	Assignments *repository.AssignmentRepository
	Storage     *StorageService
	Cfg         *config.Config
	DB          *gorm.DB

	lookup ingest.TypeLookup
	inTx   func(ctx context.Context, fn func(importStore) error) error
}

func NewQuestionService(
	questions *repository.QuestionRepository,
	types *repository.QuestionTypeRepository,
	departments *repository.DepartmentRepository,
	topics *repository.TopicRepository,
	assignments *repository.AssignmentRepository,
	storage *StorageService,
	cfg *config.Config,
	db *gorm.DB,
) *QuestionService {
	s := &QuestionService{
		Questions:   questions,
		Types:       types,
		Departments: departments,
		Topics:      topics,
		Assignments: assignments,
		Storage:     storage,
		Cfg:         cfg,
		DB:          db,
	}
	s.lookup = types
	s.inTx = func(ctx context.Context, fn func(importStore) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(gormImportStore{tx: tx})
		})
	}
	return s
}

// importStore 导入事务内的写入面，定位或创建父实体与批量写题都经由它。
// 生产实现包一个 gorm 事务句柄。
type importStore interface {
	FindAssignment(departmentID uint, number int) (*model.Assignment, error)
	CreateAssignment(a *model.Assignment) error
	FindSubTopic(topicID uint, name string) (*model.SubTopic, error)
	CreateSubTopic(st *model.SubTopic) error
	CreateQuestion(q *model.Question) error
	CreateUpload(u *model.QuestionUpload) error
}

type gormImportStore struct {
	tx *gorm.DB
}

func (s gormImportStore) FindAssignment(departmentID uint, number int) (*model.Assignment, error) {
	var a model.Assignment
	if err := s.tx.Where("department_id = ? AND assignment_number = ?", departmentID, number).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s gormImportStore) CreateAssignment(a *model.Assignment) error {
	return s.tx.Create(a).Error
}

func (s gormImportStore) FindSubTopic(topicID uint, name string) (*model.SubTopic, error) {
	var st model.SubTopic
	if err := s.tx.Where("topic_id = ? AND name = ?", topicID, name).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s gormImportStore) CreateSubTopic(st *model.SubTopic) error {
	return s.tx.Create(st).Error
}

func (s gormImportStore) CreateQuestion(q *model.Question) error {
	return s.tx.Create(q).Error
}

func (s gormImportStore) CreateUpload(u *model.QuestionUpload) error {
	return s.tx.Create(u).Error
}

// MissingRequiredFieldError 导入目标缺少必填字段
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// AssignmentImportRequest 按作业导入的目标定位字段
type AssignmentImportRequest struct {
	DepartmentID     uint   `form:"departmentId" binding:"required"`
	AssignmentNumber int    `form:"assignmentNumber"`
	TopicName        string `form:"topicName"`
	StartDate        string `form:"startDate"` // 2006-01-02
	EndDate          string `form:"endDate"`
	Description      string `form:"description"`
	ContinueOnError  bool   `form:"continueOnRowError"`
}

// SubTopicImportRequest 按子主题导入的目标定位字段
type SubTopicImportRequest struct {
	DepartmentID    uint   `form:"departmentId" binding:"required"`
	TopicName       string `form:"topicName"`
	SubTopicName    string `form:"subTopicName"`
	ContinueOnError bool   `form:"continueOnRowError"`
}

// RejectedRow 行级失败报告项
type RejectedRow struct {
	Position int    `json:"position"`
	Error    string `json:"error"`
}

// ImportResult 一次导入的响应体
type ImportResult struct {
	Scope         ingest.Scope  `json:"scope"`
	RowsProcessed int           `json:"rowsProcessed"`
	Accepted      int           `json:"accepted"`
	Rejected      []RejectedRow `json:"rejected,omitempty"`
	UploadID      string        `json:"uploadId,omitempty"`
}

// assignmentTarget 解析后的导入目标，创建推迟到事务内
type importTarget struct {
	kind       ingest.ScopeKind
	department *model.Department
	// assignment
	assignmentNumber int
	topicName        string
	description      string
	startDate        time.Time
	endDate          time.Time
	// sub_topic
	topic        *model.Topic
	subTopicName string
}

// resolveAssignmentTarget 在解析文件之前校验目标字段与父级存在性（只读）。
// 目标不合法时不做任何文件 I/O，也不写库。
func (s *QuestionService) resolveAssignmentTarget(req AssignmentImportRequest) (*importTarget, error) {
	if req.AssignmentNumber <= 0 {
		return nil, &MissingRequiredFieldError{Field: "assignmentNumber"}
	}
	if req.TopicName == "" {
		return nil, &MissingRequiredFieldError{Field: "topicName"}
	}
	if req.StartDate == "" {
		return nil, &MissingRequiredFieldError{Field: "startDate"}
	}
	if req.EndDate == "" {
		return nil, &MissingRequiredFieldError{Field: "endDate"}
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q: %w", req.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate %q: %w", req.EndDate, err)
	}

	dept, err := s.Departments.FindByID(req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDepartmentNotFound
		}
		return nil, err
	}

	return &importTarget{
		kind:             ingest.ScopeAssignment,
		department:       dept,
		assignmentNumber: req.AssignmentNumber,
		topicName:        req.TopicName,
		description:      req.Description,
		startDate:        start,
		endDate:          end,
	}, nil
}

func (s *QuestionService) resolveSubTopicTarget(req SubTopicImportRequest) (*importTarget, error) {
	if req.TopicName == "" {
		return nil, &MissingRequiredFieldError{Field: "topicName"}
	}
	if req.SubTopicName == "" {
		return nil, &MissingRequiredFieldError{Field: "subTopicName"}
	}

	dept, err := s.Departments.FindByID(req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDepartmentNotFound
		}
		return nil, err
	}
	topic, err := s.Topics.FindByName(dept.ID, req.TopicName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	return &importTarget{
		kind:         ingest.ScopeSubTopic,
		department:   dept,
		topic:        topic,
		subTopicName: req.SubTopicName,
	}, nil
}

// ImportToAssignment 将表格导入到某次作业名下。
// 目标校验 -> 整体解析（不触库）-> 单事务内定位或创建作业并批量写题。
func (s *QuestionService) ImportToAssignment(ctx context.Context, req AssignmentImportRequest, fileName string, file io.Reader, uploaderID uint) (*ImportResult, error) {
	target, err := s.resolveAssignmentTarget(req)
	if err != nil {
		return nil, err
	}
	return s.runImport(ctx, target, fileName, file, req.ContinueOnError, uploaderID)
}

// ImportToSubTopic 将表格导入到某个子主题名下
func (s *QuestionService) ImportToSubTopic(ctx context.Context, req SubTopicImportRequest, fileName string, file io.Reader, uploaderID uint) (*ImportResult, error) {
	target, err := s.resolveSubTopicTarget(req)
	if err != nil {
		return nil, err
	}
	return s.runImport(ctx, target, fileName, file, req.ContinueOnError, uploaderID)
}

func (s *QuestionService) runImport(ctx context.Context, target *importTarget, fileName string, file io.Reader, continueOnError bool, uploaderID uint) (*ImportResult, error) {
	ingCfg := s.Cfg.IngestSettings()

	// 文件内容先整体读入，解析期间不持有事务
	raw, err := io.ReadAll(io.LimitReader(file, ingCfg.MaxUploadMB*1024*1024+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > ingCfg.MaxUploadMB*1024*1024 {
		return nil, fmt.Errorf("file exceeds %d MB upload limit", ingCfg.MaxUploadMB)
	}

	opts := ingest.Options{
		ContinueOnRowError: continueOnError || ingCfg.ContinueOnRowError,
		StrictMatchPairs:   ingCfg.StrictMatchPairs,
	}
	// scope 的 ReferenceID 在事务内定位父实体后回填
	report, err := ingest.Run(ctx, bytes.NewReader(raw), ingest.Scope{Kind: target.kind}, s.lookup, opts)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		RowsProcessed: report.RowsProcessed,
		Accepted:      len(report.Questions),
	}
	for _, rej := range report.Rejected {
		result.Rejected = append(result.Rejected, RejectedRow{Position: rej.Position, Error: rej.Err.Error()})
	}

	upload := &model.QuestionUpload{
		ScopeKind:    string(target.kind),
		FileName:     fileName,
		RowsTotal:    report.RowsProcessed,
		RowsAccepted: len(report.Questions),
		RowsRejected: len(report.Rejected),
		UploaderID:   uploaderID,
	}

	// 定位或创建父实体与批量写题共用一个事务，任何失败整体回滚，
	// 不留下没有题目的孤儿父记录
	err = s.inTx(ctx, func(store importStore) error {
		refID, err := resolveOrCreateParent(store, target)
		if err != nil {
			return err
		}
		scope := ingest.Scope{Kind: target.kind, ReferenceID: refID}
		result.Scope = scope
		upload.ReferenceID = refID

		for i := range report.Questions {
			report.Questions[i].Scope = scope
			nq := report.Questions[i]
			payload, err := json.Marshal(nq.Payload)
			if err != nil {
				return err
			}
			q := model.Question{
				QuestionTypeID: nq.QuestionTypeID,
				QuestionText:   nq.QuestionText,
				Payload:        payload,
				Marks:          nq.Marks,
				OrderNo:        nq.OrderNo,
			}
			switch target.kind {
			case ingest.ScopeAssignment:
				q.AssignmentID = &refID
			case ingest.ScopeSubTopic:
				q.SubTopicID = &refID
			}
			if err := store.CreateQuestion(&q); err != nil {
				return err
			}
		}

		return store.CreateUpload(upload)
	})
	if err != nil {
		return nil, err
	}

	result.UploadID = upload.ID

	monitoring.ImportRowCounter.WithLabelValues(string(target.kind), "accepted").Add(float64(len(report.Questions)))
	monitoring.ImportRowCounter.WithLabelValues(string(target.kind), "rejected").Add(float64(len(report.Rejected)))

	// 原始文件事务外异步存档，失败只记日志
	if s.Storage != nil {
		stored := fmt.Sprintf("question-uploads/%s-%s", uuid.New().String(), fileName)
		url, err := s.Storage.Upload(ctx, stored, bytes.NewReader(raw), int64(len(raw)),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err != nil {
			logger.Log.Warn("failed to archive question upload", zap.String("file", fileName), zap.Error(err))
		} else if err := s.Questions.UpdateUploadURL(upload, url); err != nil {
			logger.Log.Warn("failed to record archived upload url", zap.String("file", fileName), zap.Error(err))
		}
	}

	return result, nil
}

// resolveOrCreateParent 事务内定位或创建 scope 父实体，返回其主键
func resolveOrCreateParent(store importStore, target *importTarget) (uint, error) {
	switch target.kind {
	case ingest.ScopeAssignment:
		a, err := store.FindAssignment(target.department.ID, target.assignmentNumber)
		if err == nil {
			return a.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		a = &model.Assignment{
			DepartmentID:     target.department.ID,
			AssignmentNumber: target.assignmentNumber,
			TopicName:        target.topicName,
			Description:      target.description,
			StartDate:        target.startDate,
			EndDate:          target.endDate,
		}
		if err := store.CreateAssignment(a); err != nil {
			return 0, err
		}
		return a.ID, nil

	case ingest.ScopeSubTopic:
		st, err := store.FindSubTopic(target.topic.ID, target.subTopicName)
		if err == nil {
			return st.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		st = &model.SubTopic{TopicID: target.topic.ID, Name: target.subTopicName}
		if err := store.CreateSubTopic(st); err != nil {
			return 0, err
		}
		return st.ID, nil
	}
	return 0, util.ErrScopeRequired
}

// 手工单题维护

type QuestionRequest struct {
	QuestionType string          `json:"questionType" binding:"required"`
	QuestionText *string         `json:"questionText"`
	Payload      json.RawMessage `json:"payload" binding:"required"`
	Marks        float64         `json:"marks"`
	OrderNo      int             `json:"orderNo"`
	AssignmentID *uint           `json:"assignmentId"`
	SubTopicID   *uint           `json:"subTopicId"`
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req QuestionRequest) (*model.Question, error) {
	if (req.AssignmentID == nil) == (req.SubTopicID == nil) {
		return nil, util.ErrScopeRequired
	}
	code, ok := ingest.ParseTypeCode(req.QuestionType)
	if !ok {
		return nil, &ingest.InvalidQuestionTypeError{Code: req.QuestionType}
	}
	ids, err := s.Types.ResolveTypes(ctx, []string{string(code)})
	if err != nil {
		return nil, err
	}
	typeID, ok := ids[string(code)]
	if !ok {
		return nil, &ingest.InvalidQuestionTypeError{Code: string(code)}
	}

	marks := req.Marks
	if marks == 0 {
		marks = 1
	}
	q := &model.Question{
		QuestionTypeID: typeID,
		QuestionText:   req.QuestionText,
		Payload:        req.Payload,
		Marks:          marks,
		OrderNo:        req.OrderNo,
		AssignmentID:   req.AssignmentID,
		SubTopicID:     req.SubTopicID,
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.Questions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	code, ok := ingest.ParseTypeCode(req.QuestionType)
	if !ok {
		return nil, &ingest.InvalidQuestionTypeError{Code: req.QuestionType}
	}
	ids, err := s.Types.ResolveTypes(ctx, []string{string(code)})
	if err != nil {
		return nil, err
	}
	typeID, ok := ids[string(code)]
	if !ok {
		return nil, &ingest.InvalidQuestionTypeError{Code: string(code)}
	}

	// 归属 scope 不允许通过更新改变
	q.QuestionTypeID = typeID
	q.QuestionText = req.QuestionText
	q.Payload = req.Payload
	if req.Marks > 0 {
		q.Marks = req.Marks
	}
	if req.OrderNo > 0 {
		q.OrderNo = req.OrderNo
	}
	if err := s.Questions.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) ListByScope(kind ingest.ScopeKind, referenceID uint) ([]model.Question, error) {
	switch kind {
	case ingest.ScopeAssignment:
		return s.Questions.ListByAssignment(referenceID)
	case ingest.ScopeSubTopic:
		return s.Questions.ListBySubTopic(referenceID)
	}
	return nil, util.ErrScopeRequired
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	return s.Questions.FindByID(id)
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.Questions.Delete(id)
}

func (s *QuestionService) ListUploads(scopeKind string, referenceID uint) ([]model.QuestionUpload, error) {
	return s.Questions.ListUploads(scopeKind, referenceID)
}

func (s *QuestionService) ListTypes() ([]model.QuestionType, error) {
	return s.Types.ListAll()
}
