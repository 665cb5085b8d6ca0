package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"edhserver/models"
)

var logger *zap.Logger

func init() {
	var err error
	// Zapのロガーを設定
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// ゲストユーザー・保存デッキ・カタログキャッシュのテーブルを作成するスクリプト。
// ルームやゾーンの状態はテーブルを持ちません（揮発性の設計）。
func main() {
	// 環境変数からデータベースの接続情報を取得
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s",
		host, user, dbname, password, sslmode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.GuestUser{},
		&models.SavedDeck{},
		&models.CatalogCard{},
	)
	if err != nil {
		logger.Fatal("Failed to migrate tables", zap.Error(err))
	}
	logger.Info("Migration completed")
}
