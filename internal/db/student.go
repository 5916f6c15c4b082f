package db

import "gorm.io/gorm"

// Student 定义了学员模型
// Name 为必填项，其余档案字段均可为空
// AvatarURL 指向上传后的头像文件，Note 为教练备注（Markdown 原文）
// HeightCM/WeightKG/Age 为基础身体指标，图表等消费方直接读取原始值
type Student struct {
	gorm.Model
	Name      string `gorm:"not null;index"`
	Phone     string
	AvatarURL string
	Note      string `gorm:"type:text"`
	HeightCM  float64
	WeightKG  float64
	Age       int
}
