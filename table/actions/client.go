package actions

import (
	"context"
	"encoding/json"
	"math/rand"

	"edhserver/catalog"
	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/connection"
	"edhserver/table/deck"
	"edhserver/table/registry"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// クライアントごとにメッセージ読み取りするゴルーチン
func HandleClient(ctx context.Context, client *models.Client, reg *registry.Registry, db *gorm.DB, rdb *redis.Client, cat catalog.Lookup, logger *zap.Logger) {
	randGen := deck.NewRandGen()

	defer func() {
		client.Conn.Close()
		// 切断の状態遷移はここが唯一の入口
		connection.HandleDisconnect(client, reg, logger)
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		// 受信したメッセージをJSON形式でデコード
		var envelope models.CommandEnvelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			logger.Error("Error decoding message", zap.Error(err))
			continue
		}

		dispatch(ctx, client, envelope, reg, db, rdb, cat, randGen, logger)
	}
}

// dispatch はコマンドタイプに基づいて各ハンドラに振り分けます。
// ハンドラ内のpanicはこの接続と他のルームを巻き込まないようここで回収します。
func dispatch(ctx context.Context, client *models.Client, envelope models.CommandEnvelope, reg *registry.Registry, db *gorm.DB, rdb *redis.Client, cat catalog.Lookup, randGen *rand.Rand, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Command handler panic",
				zap.String("command", envelope.Type),
				zap.String("connectionId", client.ID),
				zap.Any("panic", r),
			)
		}
	}()

	switch envelope.Type {
	case models.CmdCreateRoom:
		var payload models.CreateRoomPayload
		if !decodePayload(client, envelope, &payload, true, logger) {
			return
		}
		handleCreateRoom(ctx, client, payload, reg, db, rdb, cat, randGen, logger)
	case models.CmdJoinRoom:
		var payload models.JoinRoomPayload
		if !decodePayload(client, envelope, &payload, true, logger) {
			return
		}
		handleJoinRoom(ctx, client, payload, reg, db, rdb, cat, randGen, logger)
	case models.CmdSpectate:
		var payload models.SpectatePayload
		if !decodePayload(client, envelope, &payload, true, logger) {
			return
		}
		handleSpectate(client, payload, reg, logger)
	case models.CmdRejoin:
		var payload models.RejoinPayload
		if !decodePayload(client, envelope, &payload, true, logger) {
			return
		}
		handleRejoin(ctx, client, payload, reg, rdb, logger)
	case models.CmdLeaveRoom:
		handleLeave(client, reg, logger)
	case models.CmdMoveCard:
		var payload models.MoveCardPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleMoveCard(client, payload, reg, logger)
	case models.CmdRepositionCard:
		var payload models.RepositionCardPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleRepositionCard(client, payload, reg, logger)
	case models.CmdTapCard:
		var payload models.TapCardPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleTapCard(client, payload, reg, logger)
	case models.CmdSetLife:
		var payload models.SetLifePayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleSetLife(client, payload, reg, logger)
	case models.CmdShuffle:
		handleShuffle(client, reg, randGen, logger)
	case models.CmdReorderLibrary:
		var payload models.ReorderLibraryPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleReorderLibrary(client, payload, reg, logger)
	case models.CmdRestartGame:
		handleRestart(client, reg, randGen, logger)
	case models.CmdRemoveCard:
		var payload models.RemoveCardPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleRemoveCard(client, payload, reg, logger)
	case models.CmdTakeControl:
		var payload models.TakeControlPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleTakeControl(client, payload, reg, logger)
	case models.CmdAddToken:
		var payload models.AddTokenPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleAddToken(client, payload, reg, logger)
	case models.CmdUpdateBoard:
		var payload models.UpdateBoardCardPayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleUpdateBoardCard(client, payload, reg, logger)
	case models.CmdChatMessage:
		var payload models.ChatMessagePayload
		if !decodePayload(client, envelope, &payload, false, logger) {
			return
		}
		handleChatMessage(client, payload, reg, logger)
	default:
		logger.Info("Received unknown message type", zap.String("type", envelope.Type))
	}
}

// decodePayload はペイロードを各コマンドの構造体に変換します。
// ack有りのコマンドは構造化された失敗を返し、それ以外は黙って捨てます。
func decodePayload(client *models.Client, envelope models.CommandEnvelope, v interface{}, acked bool, logger *zap.Logger) bool {
	if err := json.Unmarshal(envelope.Payload, v); err != nil {
		logger.Error("Malformed command payload",
			zap.String("command", envelope.Type),
			zap.Error(err),
		)
		if acked {
			sendAckFailure(client, envelope.Type, "Malformed payload", logger)
		}
		return false
	}
	return true
}

// sendAck はコマンドへの直接応答を返します。ack対象はcreate/join/spectate/rejoinのみ。
func sendAck(client *models.Client, command string, extra map[string]interface{}, logger *zap.Logger) {
	response := map[string]interface{}{
		"type":    command + ":ack",
		"success": true,
	}
	for k, v := range extra {
		response[k] = v
	}
	broadcast.ToClient(client, response, logger)
}

func sendAckFailure(client *models.Client, command string, errorMessage string, logger *zap.Logger) {
	broadcast.ToClient(client, map[string]interface{}{
		"type":    command + ":ack",
		"success": false,
		"error":   errorMessage,
	}, logger)
}

// boundRoom は接続が入室中のルームを返します。未入室ならfalse。
func boundRoom(client *models.Client, reg *registry.Registry) (*models.Room, bool) {
	if client.RoomKey == "" {
		return nil, false
	}
	return reg.GetRoom(client.RoomKey)
}

// boundPlayerLocked はRoom.Muを保持した状態で、接続に紐づくプレイヤーを引きます。
// 観戦者と未バインドの接続にはnilが返ります（権限の無い操作は「対象なし」として落ちる）。
func boundPlayerLocked(client *models.Client, room *models.Room) *models.PlayerState {
	if client.PlayerID == "" {
		return nil
	}
	return room.Players[client.PlayerID]
}
