package models

import (
	"gorm.io/gorm"
)

// GuestUser モデルの定義。ログイン機構は持たず、トークン発行時に採番されるだけの存在
type GuestUser struct {
	gorm.Model
	DisplayName string `gorm:"not null"`
}
