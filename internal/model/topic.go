package model

// swagger:model Topic
type Topic struct {
	BaseModel
	DepartmentID uint        `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_dept_topic_name" json:"departmentId"`
	Name         string      `gorm:"size:255;not null;uniqueIndex:idx_dept_topic_name" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}

// swagger:model SubTopic
type SubTopic struct {
	BaseModel
	TopicID     uint   `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_topic_subtopic_name" json:"topicId"`
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_topic_subtopic_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Topic       *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

func (SubTopic) TableName() string {
	return "sub_topics"
}
