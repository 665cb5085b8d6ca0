package registry

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestRegistry() *Registry {
	return New(zap.NewNop())
}

func TestCreateRoomKeyFormat(t *testing.T) {
	reg := newTestRegistry()

	for i := 0; i < 50; i++ {
		room := reg.CreateRoom()
		if len(room.Key) != RoomKeyLength {
			t.Fatalf("key length = %d, want %d", len(room.Key), RoomKeyLength)
		}
		for _, r := range room.Key {
			if !strings.ContainsRune(RoomKeyAlphabet, r) {
				t.Fatalf("key %q contains %q outside the allowed alphabet", room.Key, r)
			}
		}
	}
}

func TestGetRoomCaseInsensitive(t *testing.T) {
	reg := newTestRegistry()
	room := reg.CreateRoom()

	lower := strings.ToLower(room.Key)
	found, ok := reg.GetRoom(lower)
	if !ok {
		t.Fatalf("GetRoom(%q) not found", lower)
	}
	if found != room {
		t.Fatalf("GetRoom(%q) returned a different room", lower)
	}
}

func TestDeleteRoomIdempotent(t *testing.T) {
	reg := newTestRegistry()
	room := reg.CreateRoom()

	reg.DeleteRoom(room.Key)
	if _, ok := reg.GetRoom(room.Key); ok {
		t.Fatal("room still present after delete")
	}
	// 2回目は何も起きない
	reg.DeleteRoom(room.Key)
	if got := reg.RoomCount(); got != 0 {
		t.Fatalf("RoomCount() = %d, want 0", got)
	}
}

func TestSweepStaleRooms(t *testing.T) {
	reg := newTestRegistry()
	stale := reg.CreateRoom()
	fresh := reg.CreateRoom()

	stale.Mu.Lock()
	stale.LastActivityAt = time.Now().Add(-3 * time.Hour)
	stale.Mu.Unlock()

	deleted := reg.SweepStaleRooms(StaleRoomThreshold)
	if deleted != 1 {
		t.Fatalf("SweepStaleRooms() = %d, want 1", deleted)
	}
	if _, ok := reg.GetRoom(stale.Key); ok {
		t.Fatal("stale room survived the sweep")
	}
	if _, ok := reg.GetRoom(fresh.Key); !ok {
		t.Fatal("fresh room was swept")
	}
}

func TestDisconnectRecordLifecycle(t *testing.T) {
	reg := newTestRegistry()
	room := reg.CreateRoom()

	reg.RecordDisconnect(room.Key, "player-1")
	if _, ok := reg.FindDisconnect(room.Key, "player-1"); !ok {
		t.Fatal("record not found after RecordDisconnect")
	}
	// 小文字のキーでも同じ記録に届く
	if _, ok := reg.FindDisconnect(strings.ToLower(room.Key), "player-1"); !ok {
		t.Fatal("record lookup is not case-insensitive")
	}

	reg.ClearDisconnect(room.Key, "player-1")
	if _, ok := reg.FindDisconnect(room.Key, "player-1"); ok {
		t.Fatal("record still present after ClearDisconnect")
	}
	// 冪等
	reg.ClearDisconnect(room.Key, "player-1")
}

func TestDeleteRoomDropsItsDisconnectRecords(t *testing.T) {
	reg := newTestRegistry()
	room := reg.CreateRoom()
	other := reg.CreateRoom()

	reg.RecordDisconnect(room.Key, "player-1")
	reg.RecordDisconnect(other.Key, "player-2")

	reg.DeleteRoom(room.Key)
	if _, ok := reg.FindDisconnect(room.Key, "player-1"); ok {
		t.Fatal("record for deleted room still present")
	}
	if _, ok := reg.FindDisconnect(other.Key, "player-2"); !ok {
		t.Fatal("record for surviving room was dropped")
	}
}
