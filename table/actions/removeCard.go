package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleRemoveCard はカードを完全に消します。主に役目を終えたトークンの破棄に使われます。
func handleRemoveCard(client *models.Client, payload models.RemoveCardPayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.InstanceID == "" || !models.ValidZone(payload.Zone) {
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

	if _, ok := player.Zones.TakeCard(payload.Zone, payload.InstanceID); !ok {
		return
	}
	room.Touch()

	broadcast.ToRoom(room, map[string]interface{}{
		"type":       models.EventCardRemoved,
		"playerId":   player.PlayerID,
		"zone":       payload.Zone,
		"instanceId": payload.InstanceID,
	}, logger)
}
