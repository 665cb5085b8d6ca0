package connection

import (
	"time"

	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// HandleDisconnect は読み取りループ終了時（トランスポート喪失時）に呼ばれます。
// プレイヤーはルームから消さず、切断記録を作って再接続ウィンドウのタイマーを仕掛けます。
func HandleDisconnect(client *models.Client, reg *registry.Registry, logger *zap.Logger) {
	if client.RoomKey == "" {
		return
	}
	room, ok := reg.GetRoom(client.RoomKey)
	if !ok {
		return
	}

	room.Mu.Lock()
	room.RemoveSubscriber(client)

	if client.PlayerID == "" {
		// 観戦者は記録を残さずそのまま退出
		room.Mu.Unlock()
		return
	}

	player, ok := room.Players[client.PlayerID]
	if !ok || player.ConnectionID != client.ID {
		// 既に別の接続が同じ席に座り直している（再接続済み）
		room.Mu.Unlock()
		return
	}

	player.ConnectionID = ""
	reg.RecordDisconnect(room.Key, player.PlayerID)
	logger.Info("Player disconnected",
		zap.String("roomKey", room.Key),
		zap.String("playerId", player.PlayerID),
	)

	// 「切断中（戻るかもしれない）」を他のメンバーに通知
	broadcast.ToRoom(room, map[string]interface{}{
		"type":      models.EventDisconnected,
		"playerId":  player.PlayerID,
		"mayReturn": true,
	}, logger)
	room.Mu.Unlock()

	roomKey := room.Key
	playerID := player.PlayerID
	time.AfterFunc(registry.ReconnectWindow, func() {
		RemoveIfStillGone(reg, roomKey, playerID, logger)
	})
}

// RemoveIfStillGone は再接続ウィンドウ満了時の処理です。
// タイマーは明示的にキャンセルされないため、スケジュール時の値ではなく
// 発火時点の切断記録を引き直して判定します。再接続済みなら何もしません。
func RemoveIfStillGone(reg *registry.Registry, roomKey, playerID string, logger *zap.Logger) {
	record, ok := reg.FindDisconnect(roomKey, playerID)
	if !ok {
		return // 再接続済み
	}
	if time.Since(record.DisconnectedAt) < registry.ReconnectWindow {
		// 切断し直しで新しい記録になっている。新しいタイマーに任せる
		return
	}
	reg.ClearDisconnect(roomKey, playerID)

	room, ok := reg.GetRoom(roomKey)
	if !ok {
		return
	}

	room.Mu.Lock()
	removed := RemovePlayerLocked(room, playerID, logger)
	empty := len(room.Players) == 0
	room.Mu.Unlock()

	if removed && empty {
		reg.DeleteRoom(roomKey)
	}
}

// RemovePlayerLocked はプレイヤーをルームから取り除き、退出イベントを流します。
// Room.Muを保持した状態で呼ぶこと。既にいないプレイヤーに対しては何もしません。
func RemovePlayerLocked(room *models.Room, playerID string, logger *zap.Logger) bool {
	if _, ok := room.Players[playerID]; !ok {
		return false
	}
	delete(room.Players, playerID)
	for i, id := range room.JoinOrder {
		if id == playerID {
			room.JoinOrder = append(room.JoinOrder[:i], room.JoinOrder[i+1:]...)
			break
		}
	}
	room.Touch()

	logger.Info("Player removed from room",
		zap.String("roomKey", room.Key),
		zap.String("playerId", playerID),
	)
	broadcast.ToRoom(room, map[string]interface{}{
		"type":     models.EventPlayerLeft,
		"playerId": playerID,
	}, logger)
	return true
}
