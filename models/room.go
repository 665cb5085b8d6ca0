package models

import (
	"sync"
	"time"
)

// ルームの進行状態
const (
	PhaseWaiting = "waiting"
	PhaseActive  = "active"
	PhaseEnded   = "ended"
)

// MaxPlayers はルームに参加できるプレイヤーの上限です。
const MaxPlayers = 4

// StartingLife は開始時のライフです（統率者戦ルール）。
const StartingLife = 40

// 各ルームのインスタンス。
// Muでルーム単位の読み書きを直列化します。ルームをまたぐ操作に調停は不要。
type Room struct {
	Key            string
	Mu             sync.Mutex
	Players        map[string]*PlayerState // キー: PlayerID
	JoinOrder      []string                // 表示用の参加順。正しさには使用しない
	Phase          string
	CreatedAt      time.Time
	LastActivityAt time.Time
	Subscribers    map[*Client]bool // プレイヤーの接続と観戦者の接続
}

// PlayerState はルーム内の1人のプレイヤーの状態です。
// PlayerIDは再接続をまたいで維持され、ConnectionIDだけが差し替わります。
type PlayerState struct {
	PlayerID     string
	ConnectionID string // 切断中は空
	DisplayName  string
	DeckName     string // デッキの表示名（コスメティック）
	Commander    string // 統率者のカード名（リスタート時の選別に使用）
	Zones        ZoneSet
	Life         int
}

// Touch は最終アクティビティ時刻を更新します。状態を変更する全コマンドが呼びます。
func (r *Room) Touch() {
	r.LastActivityAt = time.Now()
}

// AddSubscriber はブロードキャスト対象にクライアントを追加します。
func (r *Room) AddSubscriber(client *Client) {
	if r.Subscribers == nil {
		r.Subscribers = make(map[*Client]bool)
	}
	r.Subscribers[client] = true
}

// RemoveSubscriber は冪等です。
func (r *Room) RemoveSubscriber(client *Client) {
	delete(r.Subscribers, client)
}

// DisconnectRecord は切断中のプレイヤーの一時的な記録です。
// 再接続ウィンドウの間だけ保持され、再接続の成功か期限切れで消えます。
type DisconnectRecord struct {
	PlayerID       string
	RoomKey        string
	DisconnectedAt time.Time
}
