package repository

import (
	"college_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(a *model.TestAttempt) error {
	return r.DB.Create(a).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var a model.TestAttempt
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.TestAttempt, int64, error) {
	var as []model.TestAttempt
	var total int64
	query := r.DB.Model(&model.TestAttempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

// SubmitAttempt 答案写入、判分结果与总分更新放在同一事务
func (r *AttemptRepository) SubmitAttempt(a *model.TestAttempt, answers []model.AttemptAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			answers[i].AttemptID = a.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return tx.Save(a).Error
	})
}

func (r *AttemptRepository) ListAnswers(attemptID uint) ([]model.AttemptAnswer, error) {
	var ans []model.AttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("question_id asc").Find(&ans).Error
	return ans, err
}

// MarksSummary 某 scope 下已完成作答的聚合统计
type MarksSummary struct {
	Attempts int64   `json:"attempts"`
	Average  float64 `json:"average"`
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
}

func (r *AttemptRepository) SummarizeByScope(scopeColumn string, referenceID uint) (*MarksSummary, error) {
	var s MarksSummary
	err := r.DB.Model(&model.TestAttempt{}).
		Select("COUNT(*) as attempts, COALESCE(AVG(obtained_marks),0) as average, COALESCE(MAX(obtained_marks),0) as max, COALESCE(MIN(obtained_marks),0) as min").
		Where(scopeColumn+" = ? AND status = ?", referenceID, "completed").
		Scan(&s).Error
	return &s, err
}
