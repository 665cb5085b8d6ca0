package actions

import (
	"edhserver/models"
	"edhserver/table/connection"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleLeave は明示的な退出です。タイマーに関係なく即座にプレイヤーを取り除きます。
// 2回呼ばれても2回目は何も起きません。
func handleLeave(client *models.Client, reg *registry.Registry, logger *zap.Logger) {
	room, ok := boundRoom(client, reg)
	if !ok {
		return
	}

	playerID := client.PlayerID

	room.Mu.Lock()
	room.RemoveSubscriber(client)
	removed := false
	if playerID != "" {
		removed = connection.RemovePlayerLocked(room, playerID, logger)
	}
	empty := len(room.Players) == 0
	room.Mu.Unlock()

	if removed {
		reg.ClearDisconnect(room.Key, playerID)
	}
	if empty {
		reg.DeleteRoom(room.Key)
	}

	client.RoomKey = ""
	client.PlayerID = ""
	client.Spectator = false
}
