package actions

import (
	"context"

	"edhserver/models"
	"edhserver/table/broadcast"
	tabledb "edhserver/table/database"
	"edhserver/table/registry"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// handleRejoin は切断されたプレイヤーの席への復帰です。
// playerIdは切断をまたいで維持され、接続だけが差し替わります。
// ウィンドウ満了でプレイヤーが既に削除されていた場合はnot-foundを返します。
func handleRejoin(ctx context.Context, client *models.Client, payload models.RejoinPayload, reg *registry.Registry, rdb *redis.Client, logger *zap.Logger) {
	if payload.PlayerID == "" {
		sendAckFailure(client, models.CmdRejoin, "playerId is required", logger)
		return
	}

	room, ok := reg.GetRoom(payload.RoomKey)
	if !ok {
		sendAckFailure(client, models.CmdRejoin, "Room not found", logger)
		return
	}

	room.Mu.Lock()
	player, ok := room.Players[payload.PlayerID]
	if !ok {
		room.Mu.Unlock()
		sendAckFailure(client, models.CmdRejoin, "Player not found", logger)
		return
	}

	// 接続を差し替えて切断記録を消す。タイマーは発火時に記録を引き直すので
	// ここで明示的に止める必要はない
	player.ConnectionID = client.ID
	reg.ClearDisconnect(room.Key, player.PlayerID)

	room.AddSubscriber(client)
	client.RoomKey = room.Key
	client.PlayerID = player.PlayerID
	client.Spectator = false
	room.Touch()

	logger.Info("Player reconnected",
		zap.String("roomKey", room.Key),
		zap.String("playerId", player.PlayerID),
	)

	sendAck(client, models.CmdRejoin, map[string]interface{}{
		"roomKey":  room.Key,
		"playerId": player.PlayerID,
	}, logger)
	broadcast.ToClient(client, map[string]interface{}{
		"type":     models.EventJoined,
		"playerId": player.PlayerID,
		"room":     broadcast.RoomSnapshot(room),
	}, logger)
	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":     models.EventReconnected,
		"playerId": player.PlayerID,
	}, logger)
	room.Mu.Unlock()

	if err := tabledb.GenerateAndStoreSessionID(ctx, client, rdb, logger); err != nil {
		logger.Error("Failed to generate or store session ID", zap.Error(err))
	}
}
