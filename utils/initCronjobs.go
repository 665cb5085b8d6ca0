package utils

import (
	"edhserver/table/registry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronCleaner は放置されたルームを定期削除するスケジューラを起動します。
// ルーム削除はこのサブシステム唯一のバックグラウンド処理（再接続タイマーを除く）です。
func CronCleaner(reg *registry.Registry, logger *zap.Logger) {
	c := cron.New()

	// 2時間操作のないルームを30分おきに削除するジョブ
	c.AddFunc("@every 30m", func() {
		logger.Info("古いルームを削除する処理を開始")
		deleted := reg.SweepStaleRooms(registry.StaleRoomThreshold)
		logger.Info("古いルームの削除完了", zap.Int("rooms_deleted", deleted))
	})

	c.Start()
}
