package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleSpectate は接続をブロードキャスト対象に加えるだけで、プレイヤーにはしません。
// 観戦者はplayerIdを持たないため、暗黙の操作者として扱われることはありません。
func handleSpectate(client *models.Client, payload models.SpectatePayload, reg *registry.Registry, logger *zap.Logger) {
	if client.RoomKey != "" {
		sendAckFailure(client, models.CmdSpectate, "Already in a room", logger)
		return
	}

	room, ok := reg.GetRoom(payload.RoomKey)
	if !ok {
		sendAckFailure(client, models.CmdSpectate, "Room not found", logger)
		return
	}

	room.Mu.Lock()
	room.AddSubscriber(client)
	client.RoomKey = room.Key
	client.Spectator = true

	logger.Info("Spectator joined room",
		zap.String("roomKey", room.Key),
		zap.String("connectionId", client.ID),
	)
	sendAck(client, models.CmdSpectate, map[string]interface{}{
		"room": broadcast.RoomSnapshot(room),
	}, logger)
	room.Mu.Unlock()
}
