package actions

import (
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleRepositionCard は盤面上の位置だけを書き換えます。
// 送信者は既にローカルで適用済みなので、送信者以外にだけ流します。
func handleRepositionCard(client *models.Client, payload models.RepositionCardPayload, reg *registry.Registry, logger *zap.Logger) {
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

	board, ok := player.Zones.FindBoardCard(payload.InstanceID)
	if !ok {
		return
	}
	board.X = payload.X
	board.Y = payload.Y
	room.Touch()

	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":       models.EventCardRepositioned,
		"playerId":   player.PlayerID,
		"instanceId": board.InstanceID,
		"x":          board.X,
		"y":          board.Y,
	}, logger)
}

// handleTapCard はタップ状態を反転します。
func handleTapCard(client *models.Client, payload models.TapCardPayload, reg *registry.Registry, logger *zap.Logger) {
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

	board, ok := player.Zones.FindBoardCard(payload.InstanceID)
	if !ok {
		return
	}
	board.Tapped = !board.Tapped
	room.Touch()

	broadcast.ToRoom(room, map[string]interface{}{
		"type":       models.EventCardTapped,
		"playerId":   player.PlayerID,
		"instanceId": board.InstanceID,
		"tapped":     board.Tapped,
	}, logger)
}

// handleUpdateBoardCard は盤面カードの任意フィールドの部分更新です。
// カウンター・修整値・装備先・裏向きなどはこの1本に集約されています。
// attachedToの指す先は検証しません（描画用のヒントに過ぎない）。
func handleUpdateBoardCard(client *models.Client, payload models.UpdateBoardCardPayload, reg *registry.Registry, logger *zap.Logger) {
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

	board, ok := player.Zones.FindBoardCard(payload.InstanceID)
	if !ok {
		return
	}

	if payload.Tapped != nil {
		board.Tapped = *payload.Tapped
	}
	if payload.FaceDown != nil {
		board.FaceDown = *payload.FaceDown
	}
	if payload.CounterCount != nil && *payload.CounterCount >= 0 {
		board.CounterCount = *payload.CounterCount
	}
	if payload.PowerDelta != nil {
		board.PowerDelta = *payload.PowerDelta
	}
	if payload.ToughnessDelta != nil {
		board.ToughnessDelta = *payload.ToughnessDelta
	}
	if payload.AttachedTo != nil {
		board.AttachedTo = *payload.AttachedTo
	}
	if payload.X != nil {
		board.X = *payload.X
	}
	if payload.Y != nil {
		board.Y = *payload.Y
	}
	room.Touch()

	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":     models.EventBoardUpdated,
		"playerId": player.PlayerID,
		"card":     board,
	}, logger)
}
