package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleAddToken はサーバー側で新しい盤面カードを発行します。
// トークンはカタログ上の実体を持たず、コピーは元カードのカタログキーを引き継ぎます。
func handleAddToken(client *models.Client, payload models.AddTokenPayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.CardName == "" {
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

	board := &models.BoardCardInstance{
		CardInstance: models.CardInstance{
			InstanceID: uuid.New().String(),
			CardName:   payload.CardName,
			ImageRef:   payload.ImageRef,
		},
		X: payload.X,
		Y: payload.Y,
	}
	if payload.IsCopy {
		board.IsCopy = true
		board.ReferenceCardID = payload.ReferenceCardID
	} else {
		board.IsToken = true
	}
	player.Zones.Battlefield = append(player.Zones.Battlefield, board)
	room.Touch()

	broadcast.ToRoom(room, map[string]interface{}{
		"type":     models.EventTokenAdded,
		"playerId": player.PlayerID,
		"card":     board,
	}, logger)
}
