package broadcast

import (
	"edhserver/models"

	"go.uber.org/zap"
)

// この中の関数は全て呼び出し側がRoom.Muを保持した状態で呼びます。
// ブロードキャストの順序はルームごとのコマンド適用順と一致します（FIFO）。

// ToRoom は送信者を含むルーム内の全購読者にイベントを送ります。
func ToRoom(room *models.Room, event map[string]interface{}, logger *zap.Logger) {
	for client := range room.Subscribers {
		if err := client.Send(event); err != nil {
			logger.Error("Failed to broadcast to client",
				zap.String("roomKey", room.Key),
				zap.String("connectionId", client.ID),
				zap.Error(err),
			)
		}
	}
}

// ToRoomExcept は送信者以外の購読者にイベントを送ります。
// 送信者が既に楽観的に適用済みの操作（位置替え・ライフ変更など）に使用。
func ToRoomExcept(room *models.Room, sender *models.Client, event map[string]interface{}, logger *zap.Logger) {
	for client := range room.Subscribers {
		if client == sender {
			continue
		}
		if err := client.Send(event); err != nil {
			logger.Error("Failed to broadcast to client",
				zap.String("roomKey", room.Key),
				zap.String("connectionId", client.ID),
				zap.Error(err),
			)
		}
	}
}

// ToClient は単一のクライアントへの送信です。ackや本人向けスナップショットに使用。
func ToClient(client *models.Client, event map[string]interface{}, logger *zap.Logger) {
	if err := client.Send(event); err != nil {
		logger.Error("Failed to send to client",
			zap.String("connectionId", client.ID),
			zap.Error(err),
		)
	}
}

// PlayerSummary はプレイヤー1人分の公開状態です。
func PlayerSummary(player *models.PlayerState) map[string]interface{} {
	return map[string]interface{}{
		"playerId":    player.PlayerID,
		"displayName": player.DisplayName,
		"deckName":    player.DeckName,
		"commander":   player.Commander,
		"life":        player.Life,
		"connected":   player.ConnectionID != "",
		"zones":       &player.Zones,
	}
}

// RoomSnapshot はルーム全体の現在状態です。入室・再接続・リスタート時に送られます。
func RoomSnapshot(room *models.Room) map[string]interface{} {
	players := make([]map[string]interface{}, 0, len(room.Players))
	for _, playerID := range room.JoinOrder {
		if player, ok := room.Players[playerID]; ok {
			players = append(players, PlayerSummary(player))
		}
	}
	return map[string]interface{}{
		"roomKey": room.Key,
		"phase":   room.Phase,
		"players": players,
	}
}
