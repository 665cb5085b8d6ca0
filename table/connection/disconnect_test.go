package connection

import (
	"testing"
	"time"

	"edhserver/models"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

func seatPlayer(room *models.Room, playerID, connID string) (*models.PlayerState, *models.Client) {
	player := &models.PlayerState{
		PlayerID:     playerID,
		ConnectionID: connID,
		DisplayName:  playerID,
		Life:         models.StartingLife,
	}
	client := &models.Client{
		ID:       connID,
		RoomKey:  room.Key,
		PlayerID: playerID,
	}
	room.Mu.Lock()
	room.Players[playerID] = player
	room.JoinOrder = append(room.JoinOrder, playerID)
	room.AddSubscriber(client)
	room.Mu.Unlock()
	return player, client
}

func TestHandleDisconnectRecordsAndKeepsSeat(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	player, client := seatPlayer(room, "p1", "conn-1")

	HandleDisconnect(client, reg, logger)

	if _, ok := reg.FindDisconnect(room.Key, "p1"); !ok {
		t.Fatal("no disconnect record after HandleDisconnect")
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if player.ConnectionID != "" {
		t.Fatalf("ConnectionID = %q, want empty while disconnected", player.ConnectionID)
	}
	if _, ok := room.Players["p1"]; !ok {
		t.Fatal("player was removed immediately; the seat should survive the window")
	}
	if room.Subscribers[client] {
		t.Fatal("client still subscribed after disconnect")
	}
}

func TestHandleDisconnectStaleConnectionIsNoop(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	player, oldClient := seatPlayer(room, "p1", "conn-1")

	// 別の接続が同じ席に座り直した後に、古い接続の読み取りループが終了したケース
	room.Mu.Lock()
	player.ConnectionID = "conn-2"
	room.Mu.Unlock()

	HandleDisconnect(oldClient, reg, logger)

	if _, ok := reg.FindDisconnect(room.Key, "p1"); ok {
		t.Fatal("stale connection must not create a disconnect record")
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if player.ConnectionID != "conn-2" {
		t.Fatalf("ConnectionID = %q, the live connection was clobbered", player.ConnectionID)
	}
}

func TestHandleDisconnectSpectator(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	spectator := &models.Client{ID: "conn-s", RoomKey: room.Key, Spectator: true}
	room.Mu.Lock()
	room.AddSubscriber(spectator)
	room.Mu.Unlock()

	HandleDisconnect(spectator, reg, logger)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Subscribers[spectator] {
		t.Fatal("spectator still subscribed after disconnect")
	}
}

func TestRemoveIfStillGoneAfterReconnect(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	seatPlayer(room, "p1", "conn-1")

	// 記録が消えている＝再接続済み。何も起きない
	RemoveIfStillGone(reg, room.Key, "p1", logger)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if _, ok := room.Players["p1"]; !ok {
		t.Fatal("reconnected player was removed")
	}
}

func TestRemoveIfStillGoneFreshRecordIsDeferred(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	seatPlayer(room, "p1", "conn-1")
	reg.RecordDisconnect(room.Key, "p1")

	// 記録がまだ新しい＝切断し直し。このタイマーの出る幕ではない
	RemoveIfStillGone(reg, room.Key, "p1", logger)

	if _, ok := reg.FindDisconnect(room.Key, "p1"); !ok {
		t.Fatal("fresh record was cleared by an older timer")
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if _, ok := room.Players["p1"]; !ok {
		t.Fatal("player was removed while a fresh record existed")
	}
}

func TestRemoveIfStillGoneExpired(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	seatPlayer(room, "p1", "conn-1")
	seatPlayer(room, "p2", "conn-2")

	record := reg.RecordDisconnect(room.Key, "p1")
	record.DisconnectedAt = time.Now().Add(-2 * registry.ReconnectWindow)

	RemoveIfStillGone(reg, room.Key, "p1", logger)

	if _, ok := reg.FindDisconnect(room.Key, "p1"); ok {
		t.Fatal("record survived expiry")
	}
	room.Mu.Lock()
	_, p1Present := room.Players["p1"]
	_, p2Present := room.Players["p2"]
	joinOrder := len(room.JoinOrder)
	room.Mu.Unlock()
	if p1Present {
		t.Fatal("expired player still seated")
	}
	if !p2Present || joinOrder != 1 {
		t.Fatal("the remaining player was disturbed")
	}
	if _, ok := reg.GetRoom(room.Key); !ok {
		t.Fatal("room with a remaining player was deleted")
	}
}

func TestRemoveIfStillGoneLastPlayerDeletesRoom(t *testing.T) {
	logger := zap.NewNop()
	reg := registry.New(logger)
	room := reg.CreateRoom()
	seatPlayer(room, "p1", "conn-1")

	record := reg.RecordDisconnect(room.Key, "p1")
	record.DisconnectedAt = time.Now().Add(-2 * registry.ReconnectWindow)

	RemoveIfStillGone(reg, room.Key, "p1", logger)

	if _, ok := reg.GetRoom(room.Key); ok {
		t.Fatal("empty room survived the window expiry")
	}
}
