package repository

import (
	"college_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("QuestionType").First(&q, id).Error
	return &q, err
}

// ListByAssignment 按 order_no 升序取一次作业下的全部题目
func (r *QuestionRepository) ListByAssignment(assignmentID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Preload("QuestionType").
		Where("assignment_id = ?", assignmentID).
		Order("order_no asc, id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) ListBySubTopic(subTopicID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Preload("QuestionType").
		Where("sub_topic_id = ?", subTopicID).
		Order("order_no asc, id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) CreateUpload(u *model.QuestionUpload) error {
	return r.DB.Create(u).Error
}

// UpdateUploadURL 存档成功后回写文件地址
func (r *QuestionRepository) UpdateUploadURL(u *model.QuestionUpload, url string) error {
	return r.DB.Model(u).Update("stored_url", url).Error
}

func (r *QuestionRepository) ListUploads(scopeKind string, referenceID uint) ([]model.QuestionUpload, error) {
	var us []model.QuestionUpload
	query := r.DB.Model(&model.QuestionUpload{})
	if scopeKind != "" {
		query = query.Where("scope_kind = ?", scopeKind)
	}
	if referenceID > 0 {
		query = query.Where("reference_id = ?", referenceID)
	}
	err := query.Order("created_at desc").Find(&us).Error
	return us, err
}
