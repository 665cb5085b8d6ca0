package models

import (
	"gorm.io/gorm"
)

// SavedDeck モデルの定義。デッキリストはJSONのまま保存し、中身の検証はしない
type SavedDeck struct {
	gorm.Model
	DeckID    string `gorm:"unique;not null"` // 外部参照用のUUID
	OwnerID   uint   `gorm:"not null"`        // GuestUserのID
	Name      string
	Commander string
	CardsJSON string `gorm:"type:text"` // []DeckEntryをJSONエンコードしたもの
}
