package service

import (
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type AttemptService struct {
	Attempts    *repository.AttemptRepository
	Questions   *repository.QuestionRepository
	Assignments *repository.AssignmentRepository
	Topics      *repository.TopicRepository
	Redis       *redis.Client
}

func NewAttemptService(
	attempts *repository.AttemptRepository,
	questions *repository.QuestionRepository,
	assignments *repository.AssignmentRepository,
	topics *repository.TopicRepository,
	rdb *redis.Client,
) *AttemptService {
	return &AttemptService{
		Attempts:    attempts,
		Questions:   questions,
		Assignments: assignments,
		Topics:      topics,
		Redis:       rdb,
	}
}

type StartAttemptRequest struct {
	AssignmentID *uint `json:"assignmentId"`
	SubTopicID   *uint `json:"subTopicId"`
}

// StudentQuestion 学生作答视图，答案字段已剥离
type StudentQuestion struct {
	ID           uint           `json:"id"`
	QuestionType string         `json:"questionType"`
	QuestionText *string        `json:"questionText"`
	Payload      map[string]any `json:"payload"`
	Marks        float64        `json:"marks"`
	OrderNo      int            `json:"orderNo"`
}

type StartAttemptResponse struct {
	Attempt   *model.TestAttempt `json:"attempt"`
	Questions []StudentQuestion  `json:"questions"`
}

func (s *AttemptService) loadScopeQuestions(req StartAttemptRequest) ([]model.Question, error) {
	if (req.AssignmentID == nil) == (req.SubTopicID == nil) {
		return nil, util.ErrScopeRequired
	}
	if req.AssignmentID != nil {
		a, err := s.Assignments.FindByID(*req.AssignmentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		} else if err != nil {
			return nil, err
		}
		now := time.Now()
		if now.Before(a.StartDate) || now.After(a.EndDate) {
			return nil, util.ErrAssignmentNotActive
		}
		return s.Questions.ListByAssignment(a.ID)
	}

	if _, err := s.Topics.FindSubTopicByID(*req.SubTopicID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubTopicNotFound
	} else if err != nil {
		return nil, err
	}
	return s.Questions.ListBySubTopic(*req.SubTopicID)
}

// StartAttempt 发起一次作答，返回剥离答案的题目列表
func (s *AttemptService) StartAttempt(userID uint, req StartAttemptRequest) (*StartAttemptResponse, error) {
	questions, err := s.loadScopeQuestions(req)
	if err != nil {
		return nil, err
	}

	total := 0.0
	students := make([]StudentQuestion, 0, len(questions))
	for _, q := range questions {
		total += q.Marks
		code := ingest.TypeCode("")
		if q.QuestionType != nil {
			code = ingest.TypeCode(q.QuestionType.Code)
		}
		payload, err := RedactPayload(code, q.Payload)
		if err != nil {
			return nil, err
		}
		students = append(students, StudentQuestion{
			ID:           q.ID,
			QuestionType: string(code),
			QuestionText: q.QuestionText,
			Payload:      payload,
			Marks:        q.Marks,
			OrderNo:      q.OrderNo,
		})
	}

	attempt := &model.TestAttempt{
		UserID:       userID,
		AssignmentID: req.AssignmentID,
		SubTopicID:   req.SubTopicID,
		Status:       "in_progress",
		TotalMarks:   total,
		StartedAt:    time.Now(),
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}

	return &StartAttemptResponse{Attempt: attempt, Questions: students}, nil
}

type SubmitAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

type SubmitAttemptRequest struct {
	Answers []SubmitAnswer `json:"answers" binding:"required"`
}

type SubmitAttemptResponse struct {
	AttemptID     uint    `json:"attemptId"`
	ObtainedMarks float64 `json:"obtainedMarks"`
	TotalMarks    float64 `json:"totalMarks"`
	Correct       int     `json:"correct"`
	Questions     int     `json:"questions"`
}

// SubmitAttempt 判分并落库；答案、判分与总分更新在一个事务内完成
func (s *AttemptService) SubmitAttempt(userID, attemptID uint, req SubmitAttemptRequest) (*SubmitAttemptResponse, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	} else if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status == "completed" {
		return nil, util.ErrAttemptCompleted
	}

	questions, err := s.loadAttemptQuestions(attempt)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	obtained := 0.0
	correct := 0
	answers := make([]model.AttemptAnswer, 0, len(req.Answers))
	for _, ans := range req.Answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue // 不属于本 scope 的题目忽略
		}
		code := ingest.TypeCode("")
		if q.QuestionType != nil {
			code = ingest.TypeCode(q.QuestionType.Code)
		}
		score, isCorrect, err := GradeAnswer(code, q.Payload, ans.Answer, q.Marks)
		if err != nil {
			return nil, err
		}
		obtained += score
		if isCorrect {
			correct++
		}
		answers = append(answers, model.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     ans.Answer,
			IsCorrect:  isCorrect,
			Score:      score,
		})
	}

	now := time.Now()
	attempt.Status = "completed"
	attempt.ObtainedMarks = obtained
	attempt.CompletedAt = &now
	if err := s.Attempts.SubmitAttempt(attempt, answers); err != nil {
		return nil, err
	}

	s.invalidateSummary(attempt)

	return &SubmitAttemptResponse{
		AttemptID:     attempt.ID,
		ObtainedMarks: obtained,
		TotalMarks:    attempt.TotalMarks,
		Correct:       correct,
		Questions:     len(questions),
	}, nil
}

func (s *AttemptService) loadAttemptQuestions(attempt *model.TestAttempt) ([]model.Question, error) {
	if attempt.AssignmentID != nil {
		return s.Questions.ListByAssignment(*attempt.AssignmentID)
	}
	if attempt.SubTopicID != nil {
		return s.Questions.ListBySubTopic(*attempt.SubTopicID)
	}
	return nil, util.ErrScopeRequired
}

func (s *AttemptService) ListMyAttempts(userID uint, page, limit int) ([]model.TestAttempt, int64, error) {
	return s.Attempts.ListByUser(userID, page, limit)
}

func (s *AttemptService) GetAttempt(userID, attemptID uint, isStaff bool) (*model.TestAttempt, []model.AttemptAnswer, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrAttemptNotFound
	} else if err != nil {
		return nil, nil, err
	}
	if attempt.UserID != userID && !isStaff {
		return nil, nil, util.ErrPermissionDenied
	}
	answers, err := s.Attempts.ListAnswers(attemptID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, answers, nil
}

func summaryCacheKey(kind string, referenceID uint) string {
	return "marks:summary:" + kind + ":" + strconv.FormatUint(uint64(referenceID), 10)
}

// MarksSummary 按 scope 聚合统计，60 秒 Redis 缓存
func (s *AttemptService) MarksSummary(ctx context.Context, kind ingest.ScopeKind, referenceID uint) (*repository.MarksSummary, error) {
	column := "assignment_id"
	if kind == ingest.ScopeSubTopic {
		column = "sub_topic_id"
	} else if kind != ingest.ScopeAssignment {
		return nil, util.ErrScopeRequired
	}

	key := summaryCacheKey(string(kind), referenceID)
	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var cached repository.MarksSummary
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.Attempts.SummarizeByScope(column, referenceID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.Redis.Set(ctx, key, data, time.Minute)
		}
	}
	return summary, nil
}

func (s *AttemptService) invalidateSummary(attempt *model.TestAttempt) {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	if attempt.AssignmentID != nil {
		s.Redis.Del(ctx, summaryCacheKey(string(ingest.ScopeAssignment), *attempt.AssignmentID))
	}
	if attempt.SubTopicID != nil {
		s.Redis.Del(ctx, summaryCacheKey(string(ingest.ScopeSubTopic), *attempt.SubTopicID))
	}
}
