package actions

import (
	"math/rand"

	"edhserver/models"
	"edhserver/table/broadcast"
	"edhserver/table/deck"
	"edhserver/table/registry"

	"go.uber.org/zap"
)

// handleShuffle はライブラリをシャッフルします。
// 新しい並びは本人にだけ送り、他のメンバーには枚数だけの通知を流します。
func handleShuffle(client *models.Client, reg *registry.Registry, randGen *rand.Rand, logger *zap.Logger) {
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

	deck.Shuffle(player.Zones.Library, randGen)
	room.Touch()

	broadcast.ToClient(client, map[string]interface{}{
		"type":     models.EventLibraryShuffled,
		"playerId": player.PlayerID,
		"library":  player.Zones.Library,
	}, logger)
	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":     models.EventLibraryShuffled,
		"playerId": player.PlayerID,
		"count":    len(player.Zones.Library),
	}, logger)
}

// handleReorderLibrary は占術のための汎用プリミティブです。
// ライブラリ上部N枚を「上に残す」「下に送る」2つの順序付きリストで書き換えます。
// 結果が元のライブラリの並べ替えでない場合（重複・欠落）は捨てます。
func handleReorderLibrary(client *models.Client, payload models.ReorderLibraryPayload, reg *registry.Registry, logger *zap.Logger) {
	n := len(payload.StaysOnTop) + len(payload.GoesToBottom)
	if n == 0 {
		return
	}

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

	library := player.Zones.Library
	if n > len(library) {
		logger.Error("reorderLibrary dropped: more cards than library holds",
			zap.Int("requested", n),
			zap.Int("library", len(library)),
		)
		return
	}

	// 並べ替え対象はライブラリ末尾（＝上）のN枚
	rest := library[:len(library)-n]
	segment := library[len(library)-n:]
	byID := make(map[string]*models.CardInstance, n)
	for _, card := range segment {
		byID[card.InstanceID] = card
	}

	newTail := make([]*models.CardInstance, 0, n)
	appendByID := func(id string) bool {
		card, ok := byID[id]
		if !ok {
			return false // 対象外のカードか、同じIDの2回目
		}
		delete(byID, id)
		newTail = append(newTail, card)
		return true
	}

	// 下に送る分を先に、上に残す分は逆順で末尾に（末尾＝一番上）
	for _, id := range payload.GoesToBottom {
		if !appendByID(id) {
			logger.Error("reorderLibrary dropped: not a permutation", zap.String("instanceId", id))
			return
		}
	}
	for i := len(payload.StaysOnTop) - 1; i >= 0; i-- {
		if !appendByID(payload.StaysOnTop[i]) {
			logger.Error("reorderLibrary dropped: not a permutation", zap.String("instanceId", payload.StaysOnTop[i]))
			return
		}
	}

	player.Zones.Library = append(rest, newTail...)
	room.Touch()

	broadcast.ToClient(client, map[string]interface{}{
		"type":     models.EventLibraryReordered,
		"playerId": player.PlayerID,
		"library":  player.Zones.Library,
	}, logger)
	broadcast.ToRoomExcept(room, client, map[string]interface{}{
		"type":     models.EventLibraryReordered,
		"playerId": player.PlayerID,
		"count":    len(player.Zones.Library),
	}, logger)
}
