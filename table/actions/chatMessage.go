package actions

import (
	"time"

	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// チャットメッセージを処理する関数。状態は持たず、ルーム全員への中継のみ
func handleChatMessage(client *models.Client, payload models.ChatMessagePayload, reg *registry.Registry, logger *zap.Logger) {
	if payload.Message == "" {
		return
	}

	room, ok := boundRoom(client, reg)
	if !ok {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	// 観戦者も発言できるが、送信者表示は席に応じて変わる
	from := client.PlayerID
	displayName := "Spectator"
	if player := boundPlayerLocked(client, room); player != nil {
		displayName = player.DisplayName
	}

	timestamp := time.Now().Format(time.RFC3339)
	broadcast.ToRoom(room, map[string]interface{}{
		"type":      models.EventChatMessage,
		"message":   payload.Message,
		"from":      from,
		"fromName":  displayName,
		"timestamp": timestamp,
	}, logger)
}
