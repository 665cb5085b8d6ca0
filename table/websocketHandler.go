package table

import (
	"context"
	"net/http"
	"time"

	"edhserver/auth"
	"edhserver/catalog"
	"edhserver/models"
	"edhserver/table/actions"
	tabledb "edhserver/table/database"
	"edhserver/table/registry"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebSocket接続へのアップグレードを行う関数
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, db *gorm.DB, rdb *redis.Client, cat catalog.Lookup, reg *registry.Registry, logger *zap.Logger, upgrader websocket.Upgrader) {
	// トークンは任意。付いている場合だけ検証し、不正なものは弾く
	var userID uint
	if tokenString := r.Header.Get("Authorization"); tokenString != "" {
		claims, err := auth.ParseClaims(tokenString)
		if err != nil {
			logger.Error("Failed to validate token", zap.Error(err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
	}

	// WebSocket接続へのアップグレードと確立
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &models.Client{
		ID:     uuid.New().String(),
		Conn:   conn,
		UserID: userID,
	}
	logger.Info("New client connected",
		zap.String("connectionId", client.ID),
		zap.Uint("userId", userID),
	)

	// セッションIDの検証と復元。復元結果は席の候補としてクライアントに返すだけで、
	// 実際の再バインドはrejoinコマンドで行われる
	if sessionID := r.Header.Get("SessionID"); sessionID != "" {
		if restored := tabledb.ValidateSessionID(ctx, rdb, sessionID, logger); restored != nil {
			client.Send(map[string]interface{}{
				"type":     "session:restore",
				"roomKey":  restored.RoomKey,
				"playerId": restored.PlayerID,
			})
		}
	}

	// クライアントごとにメッセージ読み取りゴルーチンを起動
	go actions.HandleClient(ctx, client, reg, db, rdb, cat, logger)

	// Ping/Pongを管理するゴルーチンを起動
	go func(c *models.Client) {
		defer c.Conn.Close() // 接続を閉じれば読み取りループが切断処理に入る

		// Pongハンドラの設定: Pongメッセージを受信したら読み取りデッドラインを更新
		c.Conn.SetPongHandler(func(string) error {
			c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		// Pingの送信間隔を設定
		pingPeriod := 10 * time.Second

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for range ticker.C {
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return // エラーが発生した場合はゴルーチンを終了
			}
		}
	}(client)
}
