package models

// ゾーン名の定義。クライアントとの間では文字列としてやり取りされる
const (
	ZoneCommand     = "commandZone"
	ZoneLibrary     = "library"
	ZoneHand        = "hand"
	ZoneBattlefield = "battlefield"
	ZoneGraveyard   = "graveyard"
	ZoneExile       = "exile"
)

// CardInstance はゲーム内に存在する1枚の物理的なカードを表します。
// InstanceIDはデッキ展開時またはトークン生成時に発行され、再利用されません。
type CardInstance struct {
	InstanceID      string      `json:"instanceId"`
	CardName        string      `json:"cardName"`
	ReferenceCardID string      `json:"referenceCardId,omitempty"` // 外部カードカタログのキー
	ImageRef        string      `json:"imageRef,omitempty"`
	Metadata        interface{} `json:"metadata,omitempty"` // カタログ由来のメタデータ。この層では不透明な値
}

// BoardCardInstance は戦場に置かれたカードで、盤面上の状態を追加で持ちます。
type BoardCardInstance struct {
	CardInstance
	X              float64 `json:"x"` // 0〜1に正規化された座標
	Y              float64 `json:"y"`
	Tapped         bool    `json:"tapped"`
	FaceDown       bool    `json:"faceDown"`
	CounterCount   int     `json:"counterCount"`
	PowerDelta     int     `json:"powerDelta"`
	ToughnessDelta int     `json:"toughnessDelta"`
	IsToken        bool    `json:"isToken"`
	IsCopy         bool    `json:"isCopy"`
	AttachedTo     string  `json:"attachedTo,omitempty"` // 装備先のinstanceId。描画用のヒントであり検証しない
}

// ZoneSet はプレイヤー1人分の6つのゾーンです。
// Libraryはスライスの末尾が「一番上」で、ドローは末尾からのpopです。
type ZoneSet struct {
	CommandZone []*CardInstance      `json:"commandZone"`
	Library     []*CardInstance      `json:"library"`
	Hand        []*CardInstance      `json:"hand"`
	Battlefield []*BoardCardInstance `json:"battlefield"`
	Graveyard   []*CardInstance      `json:"graveyard"`
	Exile       []*CardInstance      `json:"exile"`
}

// ValidZone はクライアントから渡されたゾーン名が既知のものか確認します。
func ValidZone(zone string) bool {
	switch zone {
	case ZoneCommand, ZoneLibrary, ZoneHand, ZoneBattlefield, ZoneGraveyard, ZoneExile:
		return true
	}
	return false
}

// listFor は戦場以外のゾーンのスライスへのポインタを返します。
func (z *ZoneSet) listFor(zone string) *[]*CardInstance {
	switch zone {
	case ZoneCommand:
		return &z.CommandZone
	case ZoneLibrary:
		return &z.Library
	case ZoneHand:
		return &z.Hand
	case ZoneGraveyard:
		return &z.Graveyard
	case ZoneExile:
		return &z.Exile
	}
	return nil
}

// TakeCard は指定ゾーンからカードを取り除いて返します。
// 戦場のカードは盤面状態を剥がしてCardInstanceとして返します。
func (z *ZoneSet) TakeCard(zone, instanceID string) (*CardInstance, bool) {
	if zone == ZoneBattlefield {
		board, ok := z.TakeBoardCard(instanceID)
		if !ok {
			return nil, false
		}
		card := board.CardInstance
		return &card, true
	}
	list := z.listFor(zone)
	if list == nil {
		return nil, false
	}
	for i, card := range *list {
		if card.InstanceID == instanceID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return card, true
		}
	}
	return nil, false
}

// TakeBoardCard は戦場からカードを盤面状態ごと取り除いて返します。
func (z *ZoneSet) TakeBoardCard(instanceID string) (*BoardCardInstance, bool) {
	for i, card := range z.Battlefield {
		if card.InstanceID == instanceID {
			z.Battlefield = append(z.Battlefield[:i], z.Battlefield[i+1:]...)
			return card, true
		}
	}
	return nil, false
}

// FindBoardCard は戦場のカードを取り除かずに返します。
func (z *ZoneSet) FindBoardCard(instanceID string) (*BoardCardInstance, bool) {
	for _, card := range z.Battlefield {
		if card.InstanceID == instanceID {
			return card, true
		}
	}
	return nil, false
}

// PutCard は戦場以外のゾーンの末尾にカードを追加します。
func (z *ZoneSet) PutCard(zone string, card *CardInstance) bool {
	list := z.listFor(zone)
	if list == nil {
		return false
	}
	*list = append(*list, card)
	return true
}

// AllCards は全ゾーンのカードを基本状態に戻して1つのスライスにまとめます。
// リスタート時の回収に使用し、盤面状態（位置・タップ・カウンター等）は破棄されます。
// トークンとコピーは物理的なカードではないため回収されません。
func (z *ZoneSet) AllCards() []*CardInstance {
	var cards []*CardInstance
	cards = append(cards, z.CommandZone...)
	cards = append(cards, z.Library...)
	cards = append(cards, z.Hand...)
	cards = append(cards, z.Graveyard...)
	cards = append(cards, z.Exile...)
	for _, board := range z.Battlefield {
		if board.IsToken || board.IsCopy {
			continue
		}
		card := board.CardInstance
		cards = append(cards, &card)
	}
	return cards
}

// InstanceIDs は全ゾーンのinstanceIdを列挙します。主に不変条件の確認に使用。
func (z *ZoneSet) InstanceIDs() []string {
	var ids []string
	for _, card := range z.CommandZone {
		ids = append(ids, card.InstanceID)
	}
	for _, card := range z.Library {
		ids = append(ids, card.InstanceID)
	}
	for _, card := range z.Hand {
		ids = append(ids, card.InstanceID)
	}
	for _, card := range z.Battlefield {
		ids = append(ids, card.InstanceID)
	}
	for _, card := range z.Graveyard {
		ids = append(ids, card.InstanceID)
	}
	for _, card := range z.Exile {
		ids = append(ids, card.InstanceID)
	}
	return ids
}
