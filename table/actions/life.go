package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleSetLife はライフを指定値に書き換えます。上限下限は設けません。
// 勝敗判定はしない、ただのカウンターです。
func handleSetLife(client *models.Client, payload models.SetLifePayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.Life == nil {
		logger.Error("setLife dropped: missing life value")
		return
	}

	room, ok := boundRoom(client, reg)
	if !ok {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	player := boundPlayerLocked(client, room)
	if player == nil {
		return
	}

	player.Life = *payload.Life
	room.Touch()

	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":     models.EventLifeUpdated,
		"playerId": player.PlayerID,
		"life":     player.Life,
	}, logger)
}
