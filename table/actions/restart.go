package actions

import (
	"math/rand"

	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/deck"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleRestart はルーム全員のゾーンを初期状態に巻き戻します。
// カードは再発行せず全ゾーンから回収され、統率者は統率領域に戻り、
// 残りがライブラリに混ぜられて初手7枚を引き直します。
func handleRestart(client *models.Client, reg *registry.Registry, randGen *rand.Rand, logger *zap.Logger) {
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

	for _, p := range room.Players {
		deck.Reset(p, randGen)
	}
	room.Phase = models.PhaseActive
	room.Touch()

	logger.Info("Game restarted",
		zap.String("roomKey", room.Key),
		zap.String("requestedBy", player.PlayerID),
	)

	broadcast.ToRoom(room, map[string]interface{}{
		"type": models.EventGameRestarted,
		"room": broadcast.RoomSnapshot(room),
	}, logger)
}
