package registry

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"edhserver/models"

	"go.uber.org/zap"
)

// ルームキーは読み間違えやすい文字（I/O/0/1）を除いた6文字
const (
	RoomKeyAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	RoomKeyLength   = 6
)

// ReconnectWindow は切断されたプレイヤーが同じ席に戻れる猶予時間です。
const ReconnectWindow = 60 * time.Second

// StaleRoomThreshold を超えて操作のないルームは定期スイープで削除されます。
const StaleRoomThreshold = 2 * time.Hour

// Registry はプロセス内の全ルームと切断記録を所有します。
// プロセス起動時に一度だけ生成し、リセットはしません。
// ルーム内部の状態はここではなく各Room.Muで直列化されます。
type Registry struct {
	mu          sync.Mutex
	rooms       map[string]*models.Room
	disconnects map[string]*models.DisconnectRecord // キー: roomKey + ":" + playerID
	randGen     *rand.Rand
	logger      *zap.Logger
}

func New(logger *zap.Logger) *Registry {
	return &Registry{
		rooms:       make(map[string]*models.Room),
		disconnects: make(map[string]*models.DisconnectRecord),
		randGen:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

// NormalizeKey はルームキーを大文字に正規化します。全ての入口で呼ばれます。
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// CreateRoom は新しいキーを採番してルームを登録します。
// 稀な衝突は引き直しで回避します（外部から見える挙動は変わらない）。
func (r *Registry) CreateRoom() *models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	var key string
	for {
		key = r.generateKey()
		if _, exists := r.rooms[key]; !exists {
			break
		}
	}

	now := time.Now()
	room := &models.Room{
		Key:            key,
		Players:        make(map[string]*models.PlayerState),
		Phase:          models.PhaseWaiting,
		CreatedAt:      now,
		LastActivityAt: now,
		Subscribers:    make(map[*models.Client]bool),
	}
	r.rooms[key] = room
	r.logger.Info("Room created", zap.String("roomKey", key))
	return room
}

func (r *Registry) generateKey() string {
	b := make([]byte, RoomKeyLength)
	for i := range b {
		b[i] = RoomKeyAlphabet[r.randGen.Intn(len(RoomKeyAlphabet))]
	}
	return string(b)
}

func (r *Registry) GetRoom(key string) (*models.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[NormalizeKey(key)]
	return room, ok
}

// DeleteRoom は冪等です。ルームに紐づく切断記録もまとめて破棄します。
func (r *Registry) DeleteRoom(key string) {
	key = NormalizeKey(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[key]; !ok {
		return
	}
	delete(r.rooms, key)
	for recordKey, record := range r.disconnects {
		if record.RoomKey == key {
			delete(r.disconnects, recordKey)
		}
	}
	r.logger.Info("Room deleted", zap.String("roomKey", key))
}

func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// SweepStaleRooms は最終アクティビティがmaxIdleより古いルームを削除し、件数を返します。
func (r *Registry) SweepStaleRooms(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	// ルームのロックを取る前にレジストリのロックを手放す（ロック順序の固定）
	r.mu.Lock()
	candidates := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		candidates = append(candidates, room)
	}
	r.mu.Unlock()

	deleted := 0
	for _, room := range candidates {
		room.Mu.Lock()
		stale := room.LastActivityAt.Before(cutoff)
		room.Mu.Unlock()
		if stale {
			r.DeleteRoom(room.Key)
			deleted++
		}
	}
	if deleted > 0 {
		r.logger.Info("Stale rooms swept", zap.Int("deleted", deleted))
	}
	return deleted
}

func disconnectKey(roomKey, playerID string) string {
	return roomKey + ":" + playerID
}

// RecordDisconnect は切断記録を作成します。同じプレイヤーの古い記録は上書きされます。
func (r *Registry) RecordDisconnect(roomKey, playerID string) *models.DisconnectRecord {
	record := &models.DisconnectRecord{
		PlayerID:       playerID,
		RoomKey:        NormalizeKey(roomKey),
		DisconnectedAt: time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnects[disconnectKey(record.RoomKey, playerID)] = record
	return record
}

// FindDisconnect は生きている切断記録を返します。
// タイマー発火時の再検証にも使われます（スケジュール時の値を信用しない）。
func (r *Registry) FindDisconnect(roomKey, playerID string) (*models.DisconnectRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.disconnects[disconnectKey(NormalizeKey(roomKey), playerID)]
	return record, ok
}

// ClearDisconnect は再接続の成功か期限切れの確定時に記録を消します。冪等です。
func (r *Registry) ClearDisconnect(roomKey, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disconnects, disconnectKey(NormalizeKey(roomKey), playerID))
}
