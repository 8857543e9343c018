package model

import "time"

// TestAttempt 学生对某次作业或子主题题库的一次作答
// swagger:model TestAttempt
type TestAttempt struct {
	BaseModel
	UserID        uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AssignmentID  *uint      `gorm:"index;type:bigint unsigned" json:"assignmentId,omitempty"`
	SubTopicID    *uint      `gorm:"index;type:bigint unsigned" json:"subTopicId,omitempty"`
	Status        string     `gorm:"size:20;default:'in_progress'" json:"status"` // in_progress / completed
	ObtainedMarks float64    `gorm:"default:0" json:"obtainedMarks"`
	TotalMarks    float64    `gorm:"default:0" json:"totalMarks"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// AttemptAnswer 单题作答与判分结果
type AttemptAnswer struct {
	BaseModel
	AttemptID  uint    `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	QuestionID uint    `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Answer     string  `gorm:"type:text" json:"answer"`
	IsCorrect  bool    `gorm:"default:false" json:"isCorrect"`
	Score      float64 `gorm:"default:0" json:"score"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
