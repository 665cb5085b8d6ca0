package actions

import (
	"context"
	"math/rand"

	"edhserver/catalog"
	"edhserver/models"
	"edhserver/table/broadcast"
	tabledb "edhserver/table/database"
	"edhserver/table/registry"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleJoinRoom は既存ルームへの参加です。2人目が着席した時点でゲーム開始になります。
func handleJoinRoom(ctx context.Context, client *models.Client, payload models.JoinRoomPayload, reg *registry.Registry, db *gorm.DB, rdb *redis.Client, cat catalog.Lookup, randGen *rand.Rand, logger *zap.Logger) {
	if client.RoomKey != "" {
		sendAckFailure(client, models.CmdJoinRoom, "Already in a room", logger)
		return
	}

	room, ok := reg.GetRoom(payload.RoomKey)
	if !ok {
		sendAckFailure(client, models.CmdJoinRoom, "Room not found", logger)
		return
	}

	deckPayload := resolveDeck(payload.Deck, payload.DeckID, db, logger)
	if deckPayload == nil {
		sendAckFailure(client, models.CmdJoinRoom, "Deck data is required", logger)
		return
	}

	room.Mu.Lock()
	if len(room.Players) >= models.MaxPlayers {
		room.Mu.Unlock()
		sendAckFailure(client, models.CmdJoinRoom, "Room is full", logger)
		return
	}

	player := seatNewPlayer(client, room, payload.PlayerName, deckPayload, cat, randGen)
	room.Touch()

	logger.Info("Player joined room",
		zap.String("roomKey", room.Key),
		zap.String("playerId", player.PlayerID),
	)

	sendAck(client, models.CmdJoinRoom, map[string]interface{}{
		"roomKey":  room.Key,
		"playerId": player.PlayerID,
	}, logger)
	broadcast.ToClient(client, map[string]interface{}{
		"type":     models.EventJoined,
		"playerId": player.PlayerID,
		"room":     broadcast.RoomSnapshot(room),
	}, logger)
	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":   models.EventPlayerJoined,
		"player": broadcast.PlayerSummary(player),
	}, logger)

	// 2人以上揃ったらwaitingからactiveに遷移してゲーム開始を全員に通知
	if room.Phase == models.PhaseWaiting && len(room.Players) >= 2 {
		room.Phase = models.PhaseActive
		broadcast.ToRoom(room, map[string]interface{}{
			"type": models.EventGameStarted,
			"room": broadcast.RoomSnapshot(room),
		}, logger)
	}
	room.Mu.Unlock()

	if err := tabledb.GenerateAndStoreSessionID(ctx, client, rdb, logger); err != nil {
		logger.Error("Failed to generate or store session ID", zap.Error(err))
	}
}
