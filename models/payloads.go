package models

import "encoding/json"

// クライアントから届くメッセージの外枠。typeで分岐し、payloadを各コマンドの構造体に変換する
type CommandEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// 受信コマンドのタイプ一覧
const (
	CmdCreateRoom     = "createRoom"
	CmdJoinRoom       = "joinRoom"
	CmdSpectate       = "spectate"
	CmdRejoin         = "rejoin"
	CmdLeaveRoom      = "leaveRoom"
	CmdMoveCard       = "moveCard"
	CmdRepositionCard = "repositionCard"
	CmdTapCard        = "tapCard"
	CmdSetLife        = "setLife"
	CmdShuffle        = "shuffleLibrary"
	CmdReorderLibrary = "reorderLibrary"
	CmdRestartGame    = "restartGame"
	CmdRemoveCard     = "removeCard"
	CmdTakeControl    = "takeControl"
	CmdAddToken       = "addToken"
	CmdUpdateBoard    = "updateBoardCard"
	CmdChatMessage    = "chatMessage"
)

// 送信イベントのタイプ一覧
const (
	EventJoined           = "joined"
	EventPlayerJoined     = "playerJoined"
	EventGameStarted      = "gameStarted"
	EventPlayerLeft       = "playerLeft"
	EventDisconnected     = "playerDisconnected"
	EventReconnected      = "playerReconnected"
	EventCardMoved        = "cardMoved"
	EventCardRepositioned = "cardRepositioned"
	EventCardTapped       = "cardTapped"
	EventLifeUpdated      = "lifeUpdated"
	EventLibraryShuffled  = "libraryShuffled"
	EventLibraryReordered = "libraryReordered"
	EventGameRestarted    = "gameRestarted"
	EventCardRemoved      = "cardRemoved"
	EventControlChanged   = "controlChanged"
	EventTokenAdded       = "tokenAdded"
	EventBoardUpdated     = "boardCardUpdated"
	EventChatMessage      = "chatMessage"
	EventSession          = "session"
)

// DeckEntry はデッキリストの1行です。
type DeckEntry struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	ExternalID string `json:"externalId,omitempty"`
	ImageRef   string `json:"imageRef,omitempty"`
}

// DeckPayload は統率者とメインデッキのリストです。
type DeckPayload struct {
	Name      string      `json:"name,omitempty"`
	Commander string      `json:"commander,omitempty"`
	Cards     []DeckEntry `json:"cards"`
}

type CreateRoomPayload struct {
	PlayerName string       `json:"playerName"`
	DeckID     string       `json:"deckId,omitempty"` // 保存済みデッキの参照
	Deck       *DeckPayload `json:"deck,omitempty"`
}

type JoinRoomPayload struct {
	RoomKey    string       `json:"roomKey"`
	PlayerName string       `json:"playerName"`
	DeckID     string       `json:"deckId,omitempty"`
	Deck       *DeckPayload `json:"deck,omitempty"`
}

type SpectatePayload struct {
	RoomKey string `json:"roomKey"`
}

type RejoinPayload struct {
	RoomKey  string `json:"roomKey"`
	PlayerID string `json:"playerId"`
}

type MoveCardPayload struct {
	InstanceID string  `json:"instanceId"`
	FromZone   string  `json:"fromZone"`
	ToZone     string  `json:"toZone"`
	X          float64 `json:"x,omitempty"` // 行き先が戦場の場合のみ使用
	Y          float64 `json:"y,omitempty"`
}

type RepositionCardPayload struct {
	InstanceID string  `json:"instanceId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type TapCardPayload struct {
	InstanceID string `json:"instanceId"`
}

type SetLifePayload struct {
	Life *int `json:"life"` // 0と未指定を区別するためポインタ
}

type ReorderLibraryPayload struct {
	// どちらも先頭が「より上」の順。二つ合わせてライブラリ上部の並べ替え対象になる
	StaysOnTop   []string `json:"staysOnTop"`
	GoesToBottom []string `json:"goesToBottom"`
}

type RemoveCardPayload struct {
	InstanceID string `json:"instanceId"`
	Zone       string `json:"zone"`
}

type TakeControlPayload struct {
	InstanceID   string `json:"instanceId"`
	FromPlayerID string `json:"fromPlayerId"`
	ToPlayerID   string `json:"toPlayerId"`
	// 観戦者（ポップアウト表示）が代理で操作する場合に必須
	ActingPlayerID string `json:"actingPlayerId,omitempty"`
}

type AddTokenPayload struct {
	CardName        string  `json:"cardName"`
	ImageRef        string  `json:"imageRef,omitempty"`
	ReferenceCardID string  `json:"referenceCardId,omitempty"` // コピーの場合のみ元カードのカタログキー
	IsCopy          bool    `json:"isCopy,omitempty"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
}

// UpdateBoardCardPayload は戦場のカードの任意のフィールドを部分更新します。
// nilのフィールドは変更しません。
type UpdateBoardCardPayload struct {
	InstanceID     string   `json:"instanceId"`
	Tapped         *bool    `json:"tapped,omitempty"`
	FaceDown       *bool    `json:"faceDown,omitempty"`
	CounterCount   *int     `json:"counterCount,omitempty"`
	PowerDelta     *int     `json:"powerDelta,omitempty"`
	ToughnessDelta *int     `json:"toughnessDelta,omitempty"`
	AttachedTo     *string  `json:"attachedTo,omitempty"`
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
}

type ChatMessagePayload struct {
	Message string `json:"message"`
}
