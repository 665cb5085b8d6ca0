package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleTakeControl は戦場のカードを別のプレイヤーの戦場に移します。
// 位置・タップ・カウンター・修整値・装備先は全てそのまま引き継がれます。
// 観戦者（ポップアウト表示）はactingPlayerIdを明示した場合のみ代理で操作できます。
func handleTakeControl(client *models.Client, payload models.TakeControlPayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.InstanceID == "" || payload.FromPlayerID == "" || payload.ToPlayerID == "" {
		return
	}

	room, ok := boundRoom(client, reg)
	if !ok {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	// 操作者の解決。プレイヤーの接続はそのまま、観戦者は明示された代理先が必要
	actorID := client.PlayerID
	if actorID == "" {
		if payload.ActingPlayerID == "" {
			return
		}
		if _, ok := room.Players[payload.ActingPlayerID]; !ok {
			return
		}
		actorID = payload.ActingPlayerID
	}

	fromPlayer, ok := room.Players[payload.FromPlayerID]
	if !ok {
		return
	}
	toPlayer, ok := room.Players[payload.ToPlayerID]
	if !ok {
		return
	}

	board, ok := fromPlayer.Zones.TakeBoardCard(payload.InstanceID)
	if !ok {
		return
	}
	toPlayer.Zones.Battlefield = append(toPlayer.Zones.Battlefield, board)
	room.Touch()

	logger.Info("Card control transferred",
		zap.String("roomKey", room.Key),
		zap.String("instanceId", board.InstanceID),
		zap.String("from", payload.FromPlayerID),
		zap.String("to", payload.ToPlayerID),
		zap.String("actor", actorID),
	)

	broadcast.ToRoom(room, map[string]interface{}{
		"type":         models.EventControlChanged,
		"fromPlayerId": payload.FromPlayerID,
		"toPlayerId":   payload.ToPlayerID,
		"card":         board,
	}, logger)
}
