package models

import (
	"gorm.io/gorm"
)

// CatalogCard は外部カードカタログのローカルキャッシュです。
// デッキ展開時に名前で引き、見つからなくてもエラーにはしません。
type CatalogCard struct {
	gorm.Model
	Name         string `gorm:"index;not null"`
	ExternalID   string `gorm:"not null"`
	ImageRef     string
	TypeLine     string
	MetadataJSON string `gorm:"type:text"` // カタログのメタデータ。この層では不透明
}
