package models

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Websocketクライアントを定義
type Client struct {
	ID        string // 接続ごとに発行されるUUID
	Conn      *websocket.Conn
	UserID    uint   // JWTから抽出したゲストユーザーID（匿名の場合は0）
	RoomKey   string // 入室中のルームキー（未入室の場合は空）
	PlayerID  string // 紐づくプレイヤーID（観戦者と未入室の場合は空）
	Spectator bool   // 観戦者かどうか

	writeMu sync.Mutex // 複数ゴルーチンからの書き込みを直列化
}

// Send はクライアントへJSONメッセージを送信します。
// 接続が確立されていない場合は何もしません（テストではConnがnilのまま使用される）。
func (c *Client) Send(v interface{}) error {
	if c == nil || c.Conn == nil {
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}
