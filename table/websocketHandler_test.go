package table

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edhserver/table/registry"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 実際のWebSocket接続でcreate→join→moveCardの往復を通す。
// DB・Redis・カタログは無しで動く構成（インラインデッキのみ）。
func newTestServer(t *testing.T) (*httptest.Server, *registry.Registry) {
	t.Helper()
	logger := zap.NewNop()
	reg := registry.New(logger)
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleConnections(context.Background(), w, r, nil, nil, nil, reg, logger, upgrader)
	}))
	t.Cleanup(server.Close)
	return server, reg
}

func dialTestServer(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendCommand(t *testing.T, conn *websocket.Conn, command string, payload interface{}) {
	t.Helper()
	if err := conn.WriteJSON(map[string]interface{}{
		"type":    command,
		"payload": payload,
	}); err != nil {
		t.Fatalf("write %s: %v", command, err)
	}
}

// readUntil は指定タイプのメッセージが届くまで読み進めます。
// 途中に割り込むセッション系のメッセージなどは読み飛ばします。
func readUntil(t *testing.T, conn *websocket.Conn, messageType string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var message map[string]interface{}
		if err := conn.ReadJSON(&message); err != nil {
			t.Fatalf("waiting for %q: %v", messageType, err)
		}
		if message["type"] == messageType {
			return message
		}
	}
}

func testDeckJSON() map[string]interface{} {
	cards := []map[string]interface{}{}
	for _, name := range []string{"Sol Ring", "Arcane Signet", "Command Tower", "Swamp", "Island", "Forest", "Plains", "Mountain", "Counterspell", "Cultivate"} {
		cards = append(cards, map[string]interface{}{"name": name, "quantity": 1})
	}
	return map[string]interface{}{
		"name":      "Integration Deck",
		"commander": "Test Commander",
		"cards":     cards,
	}
}

func TestWebSocketCreateJoinAndMove(t *testing.T) {
	server, reg := newTestServer(t)

	// 1人目: ルーム作成
	alice := dialTestServer(t, server)
	sendCommand(t, alice, "createRoom", map[string]interface{}{
		"playerName": "Alice",
		"deck":       testDeckJSON(),
	})

	ack := readUntil(t, alice, "createRoom:ack")
	if ack["success"] != true {
		t.Fatalf("createRoom ack = %v", ack)
	}
	roomKey, _ := ack["roomKey"].(string)
	alicePlayerID, _ := ack["playerId"].(string)
	if roomKey == "" || alicePlayerID == "" {
		t.Fatalf("ack missing roomKey/playerId: %v", ack)
	}

	joined := readUntil(t, alice, "joined")
	roomState, _ := joined["room"].(map[string]interface{})
	if roomState["phase"] != "waiting" {
		t.Fatalf("phase = %v after create, want waiting", roomState["phase"])
	}

	// 2人目: 参加。ここでゲーム開始
	bob := dialTestServer(t, server)
	sendCommand(t, bob, "joinRoom", map[string]interface{}{
		"roomKey":    roomKey,
		"playerName": "Bob",
		"deck":       testDeckJSON(),
	})
	joinAck := readUntil(t, bob, "joinRoom:ack")
	if joinAck["success"] != true {
		t.Fatalf("joinRoom ack = %v", joinAck)
	}

	// ackの後にスナップショット、2人揃ったのでゲーム開始が続く
	bobJoined := readUntil(t, bob, "joined")
	started := readUntil(t, bob, "gameStarted")
	startedRoom, _ := started["room"].(map[string]interface{})
	if startedRoom["phase"] != "active" {
		t.Fatalf("phase = %v after second join, want active", startedRoom["phase"])
	}

	// 作成者側にも参加とゲーム開始が届く
	readUntil(t, alice, "playerJoined")
	readUntil(t, alice, "gameStarted")

	// 手札のカードを戦場に出す。cardMovedは送信者含む全員に届く
	cardID := firstHandCardID(t, bobJoined)
	sendCommand(t, bob, "moveCard", map[string]interface{}{
		"instanceId": cardID,
		"fromZone":   "hand",
		"toZone":     "battlefield",
		"x":          0.25,
		"y":          0.75,
	})

	moved := readUntil(t, bob, "cardMoved")
	card, _ := moved["card"].(map[string]interface{})
	if card["instanceId"] != cardID || card["tapped"] != false {
		t.Fatalf("cardMoved echo = %v", moved)
	}
	aliceView := readUntil(t, alice, "cardMoved")
	if peerCard, _ := aliceView["card"].(map[string]interface{}); peerCard["instanceId"] != cardID {
		t.Fatalf("peer saw a different card: %v", aliceView)
	}

	if got := reg.RoomCount(); got != 1 {
		t.Fatalf("RoomCount() = %d, want 1", got)
	}
}

// firstHandCardID はjoinedスナップショットから自分の手札の先頭カードを引きます。
func firstHandCardID(t *testing.T, joined map[string]interface{}) string {
	t.Helper()
	playerID, _ := joined["playerId"].(string)
	room, _ := joined["room"].(map[string]interface{})
	players, _ := room["players"].([]interface{})
	for _, entry := range players {
		player, _ := entry.(map[string]interface{})
		if player["playerId"] != playerID {
			continue
		}
		zones, _ := player["zones"].(map[string]interface{})
		hand, _ := zones["hand"].([]interface{})
		if len(hand) == 0 {
			t.Fatal("joined snapshot has an empty hand")
		}
		card, _ := hand[0].(map[string]interface{})
		id, _ := card["instanceId"].(string)
		if id == "" {
			t.Fatal("hand card has no instanceId")
		}
		return id
	}
	t.Fatalf("player %q not present in the snapshot", playerID)
	return ""
}
