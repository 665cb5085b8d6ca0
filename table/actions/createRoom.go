package actions

import (
	"context"
	"encoding/json"
	"math/rand"

	"edhserver/catalog"
	"edhserver/models"
	"edhserver/table/broadcast"
	tabledb "edhserver/table/database"
	"edhserver/table/deck"
	"edhserver/table/registry"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleCreateRoom は新しいルームを作り、作成者を1人目のプレイヤーとして着席させます。
func handleCreateRoom(ctx context.Context, client *models.Client, payload models.CreateRoomPayload, reg *registry.Registry, db *gorm.DB, rdb *redis.Client, cat catalog.Lookup, randGen *rand.Rand, logger *zap.Logger) {
	if client.RoomKey != "" {
		sendAckFailure(client, models.CmdCreateRoom, "Already in a room", logger)
		return
	}

	deckPayload := resolveDeck(payload.Deck, payload.DeckID, db, logger)
	if deckPayload == nil {
		sendAckFailure(client, models.CmdCreateRoom, "Deck data is required", logger)
		return
	}

	room := reg.CreateRoom()

	room.Mu.Lock()
	player := seatNewPlayer(client, room, payload.PlayerName, deckPayload, cat, randGen)
	room.Touch()

	logger.Info("Room created by player",
		zap.String("roomKey", room.Key),
		zap.String("playerId", player.PlayerID),
	)

	sendAck(client, models.CmdCreateRoom, map[string]interface{}{
		"roomKey":  room.Key,
		"playerId": player.PlayerID,
	}, logger)
	broadcast.ToClient(client, map[string]interface{}{
		"type":     models.EventJoined,
		"playerId": player.PlayerID,
		"room":     broadcast.RoomSnapshot(room),
	}, logger)
	room.Mu.Unlock()

	if err := tabledb.GenerateAndStoreSessionID(ctx, client, rdb, logger); err != nil {
		logger.Error("Failed to generate or store session ID", zap.Error(err))
	}
}

// seatNewPlayer はデッキを展開してプレイヤーを作り、ルームに登録します。
// Room.Muを保持した状態で呼ぶこと。
func seatNewPlayer(client *models.Client, room *models.Room, playerName string, deckPayload *models.DeckPayload, cat catalog.Lookup, randGen *rand.Rand) *models.PlayerState {
	playerID := uuid.New().String()
	player := &models.PlayerState{
		PlayerID:     playerID,
		ConnectionID: client.ID,
		DisplayName:  playerName,
		DeckName:     deckPayload.Name,
		Commander:    deckPayload.Commander,
		Zones:        deck.Expand(deckPayload, cat, randGen),
		Life:         models.StartingLife,
	}
	room.Players[playerID] = player
	room.JoinOrder = append(room.JoinOrder, playerID)
	room.AddSubscriber(client)

	client.RoomKey = room.Key
	client.PlayerID = playerID
	client.Spectator = false
	return player
}

// resolveDeck はインラインのデッキか保存済みデッキの参照を解決します。
// どちらも無ければnil（ackで失敗を返す）。
func resolveDeck(inline *models.DeckPayload, deckID string, db *gorm.DB, logger *zap.Logger) *models.DeckPayload {
	if inline != nil && (len(inline.Cards) > 0 || inline.Commander != "") {
		return inline
	}
	if deckID == "" || db == nil {
		return nil
	}

	var saved models.SavedDeck
	if err := db.Where("deck_id = ?", deckID).First(&saved).Error; err != nil {
		logger.Error("Saved deck not found", zap.String("deckId", deckID), zap.Error(err))
		return nil
	}

	var cards []models.DeckEntry
	if err := json.Unmarshal([]byte(saved.CardsJSON), &cards); err != nil {
		logger.Error("Failed to decode saved deck", zap.String("deckId", deckID), zap.Error(err))
		return nil
	}
	return &models.DeckPayload{
		Name:      saved.Name,
		Commander: saved.Commander,
		Cards:     cards,
	}
}
