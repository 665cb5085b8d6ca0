package database

import (
	"context"
	"encoding/json"
	"time"

	"edhserver/models"

	"go.uber.org/zap"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// 再開トークンのTTL。再接続ウィンドウより十分長く、放置されたトークンはRedis側で消える
const sessionTTL = 24 * time.Hour

// ValidateSessionID checks the session ID from Redis and returns the stored
// identity if the session is valid.
// ここで返るのはrejoinの入力候補であって、席への再バインドはrejoinコマンドが行います。
func ValidateSessionID(ctx context.Context, rdb *redis.Client, sessionID string, logger *zap.Logger) *models.Client {
	if rdb == nil || sessionID == "" {
		return nil
	}

	sessionInfoJSON, err := rdb.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		logger.Error("Failed to retrieve session info", zap.Error(err))
		return nil
	}

	var sessionInfo map[string]interface{}
	if err := json.Unmarshal([]byte(sessionInfoJSON), &sessionInfo); err != nil {
		logger.Error("Failed to decode session info", zap.Error(err))
		return nil
	}

	playerID, ok := sessionInfo["playerId"].(string)
	if !ok {
		logger.Error("Invalid session info: missing playerId")
		return nil
	}
	roomKey, ok := sessionInfo["roomKey"].(string)
	if !ok {
		logger.Error("Invalid session info: missing roomKey")
		return nil
	}

	// 有効なセッション情報を基に復元候補を返す
	return &models.Client{
		PlayerID: playerID,
		RoomKey:  roomKey,
	}
}

// GenerateAndStoreSessionID は再開トークンを発行してRedisに保存し、クライアントに送ります。
// ルームへのバインドが成功するたびに呼ばれ、古いトークンは上書きではなくTTLで消えます。
func GenerateAndStoreSessionID(ctx context.Context, client *models.Client, rdb *redis.Client, logger *zap.Logger) error {
	if rdb == nil || client.PlayerID == "" {
		return nil
	}

	sessionID := uuid.New().String()

	// セッション情報をJSON形式でエンコード
	sessionInfo := map[string]interface{}{
		"playerId": client.PlayerID,
		"roomKey":  client.RoomKey,
	}
	sessionInfoJSON, err := json.Marshal(sessionInfo)
	if err != nil {
		logger.Error("Error encoding session info", zap.Error(err))
		return err
	}

	if err := rdb.Set(ctx, "session:"+sessionID, sessionInfoJSON, sessionTTL).Err(); err != nil {
		logger.Error("Error storing session info in Redis", zap.Error(err))
		return err
	}

	// セッションIDをクライアントに送り返す
	return client.Send(map[string]interface{}{
		"type":      models.EventSession,
		"sessionId": sessionID,
		"playerId":  client.PlayerID,
		"roomKey":   client.RoomKey,
	})
}
