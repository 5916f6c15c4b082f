package main

import (
	"fmt"
	"log"

	"github.com/gymlog/internal/config"
	"github.com/gymlog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在账号
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("账号已存在，无需初始化")
		return
	}

	// 创建默认教练账号
	password := "admin123" // 默认密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建账号失败:", err)
	}

	fmt.Println("默认教练账号创建成功")
	fmt.Println("用户名: admin")
	fmt.Println("密码: admin123")
}
