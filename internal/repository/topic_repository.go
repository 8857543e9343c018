package repository

import (
	"college_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(t *model.Topic) error {
	return r.DB.Create(t).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var t model.Topic
	err := r.DB.First(&t, id).Error
	return &t, err
}

func (r *TopicRepository) FindByName(departmentID uint, name string) (*model.Topic, error) {
	var t model.Topic
	err := r.DB.Where("department_id = ? AND name = ?", departmentID, name).First(&t).Error
	return &t, err
}

func (r *TopicRepository) List(departmentID uint, page, limit int) ([]model.Topic, int64, error) {
	var ts []model.Topic
	var total int64
	query := r.DB.Model(&model.Topic{})
	if departmentID > 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&ts).Error
	return ts, total, err
}

func (r *TopicRepository) Update(t *model.Topic) error {
	return r.DB.Save(t).Error
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}

// SubTopic 相关

func (r *TopicRepository) CreateSubTopic(st *model.SubTopic) error {
	return r.DB.Create(st).Error
}

func (r *TopicRepository) FindSubTopicByID(id uint) (*model.SubTopic, error) {
	var st model.SubTopic
	err := r.DB.Preload("Topic").First(&st, id).Error
	return &st, err
}

func (r *TopicRepository) FindSubTopicByName(topicID uint, name string) (*model.SubTopic, error) {
	var st model.SubTopic
	err := r.DB.Where("topic_id = ? AND name = ?", topicID, name).First(&st).Error
	return &st, err
}

func (r *TopicRepository) ListSubTopics(topicID uint) ([]model.SubTopic, error) {
	var sts []model.SubTopic
	err := r.DB.Where("topic_id = ?", topicID).Order("name asc").Find(&sts).Error
	return sts, err
}

func (r *TopicRepository) DeleteSubTopic(id uint) error {
	return r.DB.Delete(&model.SubTopic{}, id).Error
}
