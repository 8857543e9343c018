package database

import (
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/ingest"
	"college_edu_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.College{},
		&model.Department{},
		&model.Topic{},
		&model.SubTopic{},
		&model.Assignment{},
		&model.QuestionType{},
		&model.Question{},
		&model.QuestionUpload{},
		&model.TestAttempt{},
		&model.AttemptAnswer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedQuestionTypes(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedQuestionTypes 保证题型字典表包含全部受支持的题型编码
func seedQuestionTypes(db *gorm.DB) error {
	names := map[ingest.TypeCode]string{
		ingest.MCQ:         "单选题",
		ingest.FillBlank:   "填空题",
		ingest.Match:       "连线题",
		ingest.OwnResponse: "主观题",
		ingest.TrueFalse:   "判断题",
		ingest.OneWord:     "单词作答题",
	}

	for _, code := range ingest.AllTypeCodes() {
		var existing model.QuestionType
		err := db.Where("code = ?", string(code)).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		qt := model.QuestionType{Code: string(code), Name: names[code]}
		if err := db.Create(&qt).Error; err != nil {
			return err
		}
	}
	return nil
}
