// 初始管理员账号创建脚本
//
// 首次部署后执行一次，创建平台管理员账号。
// 账号已存在时直接退出，不做修改。
//
// 用法: go run scripts/seed_admin.go admin@example.com 密码
package main

import (
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/model"
	"college_edu_backend/pkg/database"
	"college_edu_backend/pkg/logger"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("用法: go run scripts/seed_admin.go <email> <password>")
	}
	email, password := os.Args[1], os.Args[2]

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var existing model.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("账号 %s 已存在，跳过", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("查询失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员账号 %s 创建完成", email)
}
