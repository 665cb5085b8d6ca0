package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleMoveCard は自分のゾーン間でカードを移動します。
// 行き先が戦場の場合は指定座標・アンタップ・カウンター0の盤面カードに昇格します。
// 全員（送信者含む）に流すことで適用順の確認を兼ねます。
func handleMoveCard(client *models.Client, payload models.MoveCardPayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.InstanceID == "" || !models.ValidZone(payload.FromZone) || !models.ValidZone(payload.ToZone) {
		logger.Error("Invalid moveCard payload",
			zap.String("fromZone", payload.FromZone),
			zap.String("toZone", payload.ToZone),
		)
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

	card, ok := player.Zones.TakeCard(payload.FromZone, payload.InstanceID)
	if !ok {
		logger.Info("moveCard dropped: card not in zone",
			zap.String("instanceId", payload.InstanceID),
			zap.String("fromZone", payload.FromZone),
		)
		return
	}

	var moved interface{}
	if payload.ToZone == models.ZoneBattlefield {
		board := &models.BoardCardInstance{
			CardInstance: *card,
			X:            payload.X,
			Y:            payload.Y,
		}
		player.Zones.Battlefield = append(player.Zones.Battlefield, board)
		moved = board
	} else {
		player.Zones.PutCard(payload.ToZone, card)
		moved = card
	}
	room.Touch()

	broadcast.ToRoom(room, map[string]interface{}{
		"type":     models.EventCardMoved,
		"playerId": player.PlayerID,
		"fromZone": payload.FromZone,
		"toZone":   payload.ToZone,
		"card":     moved,
	}, logger)
}
