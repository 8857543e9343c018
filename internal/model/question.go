package model

import "encoding/json"

// QuestionType 题型字典表，种子数据固定六种题型编码
// swagger:model QuestionType
type QuestionType struct {
	BaseModel
	Code string `gorm:"size:50;not null;unique" json:"code"` // mcq, fill_blank, match, own_response, true_false, one_word
	Name string `gorm:"size:100;not null" json:"name"`
}

func (QuestionType) TableName() string {
	return "question_types"
}

// Question 题目，归属于一次作业或一个子主题（二选一）
// swagger:model Question
type Question struct {
	BaseModel
	QuestionTypeID uint            `gorm:"index;type:bigint unsigned;not null" json:"questionTypeId"`
	QuestionText   *string         `gorm:"type:text" json:"questionText"`
	Payload        json.RawMessage `gorm:"type:json;not null" json:"payload"` // 按题型结构化的内容
	Marks          float64         `gorm:"default:1" json:"marks"`
	OrderNo        int             `gorm:"default:0;index" json:"orderNo"`
	AssignmentID   *uint           `gorm:"index;type:bigint unsigned" json:"assignmentId,omitempty"`
	SubTopicID     *uint           `gorm:"index;type:bigint unsigned" json:"subTopicId,omitempty"`
	QuestionType   *QuestionType   `gorm:"foreignKey:QuestionTypeID" json:"questionType,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionUpload 题库表格上传记录（存档用）
type QuestionUpload struct {
	UUIDBase
	ScopeKind    string `gorm:"size:20;not null" json:"scopeKind"` // assignment / sub_topic
	ReferenceID  uint   `gorm:"index;type:bigint unsigned;not null" json:"referenceId"`
	FileName     string `gorm:"size:255" json:"fileName"`
	StoredURL    string `gorm:"size:512" json:"storedUrl"`
	RowsTotal    int    `gorm:"default:0" json:"rowsTotal"`
	RowsAccepted int    `gorm:"default:0" json:"rowsAccepted"`
	RowsRejected int    `gorm:"default:0" json:"rowsRejected"`
	UploaderID   uint   `gorm:"index;type:bigint unsigned" json:"uploaderId"`
}

func (QuestionUpload) TableName() string {
	return "question_uploads"
}
