package deck

import (
	"math/rand"
	"time"

	"edhserver/catalog"
	"edhserver/models"

	"github.com/google/uuid"
)

// OpeningHandSize は初手の枚数です。ライブラリが尽きたらそこで打ち切ります。
const OpeningHandSize = 7

// 乱数はシャッフルに使用。接続ごとにローカルな生成器を持つ
func NewRandGen() *rand.Rand {
	source := rand.NewSource(time.Now().UnixNano())
	return rand.New(source)
}

// mintCard は物理カード1枚分のインスタンスを発行します。
// instanceIdは発行のたびにユニークで、再利用されません。
func mintCard(name, externalID, imageRef string, cat catalog.Lookup) *models.CardInstance {
	card := &models.CardInstance{
		InstanceID:      uuid.New().String(),
		CardName:        name,
		ReferenceCardID: externalID,
		ImageRef:        imageRef,
	}
	if cat != nil {
		if info, ok := cat.Find(name); ok {
			if card.ReferenceCardID == "" {
				card.ReferenceCardID = info.ExternalID
			}
			if card.ImageRef == "" {
				card.ImageRef = info.ImageRef
			}
			card.Metadata = info.Metadata
		}
	}
	return card
}

// Expand はデッキペイロードをゾーン一式に展開します。
//  1. 統率者がいれば統率領域に1枚発行
//  2. 各行のquantity分だけライブラリにインスタンスを発行（同名でも別のinstanceId）
//  3. ライブラリをシャッフル
//  4. 末尾（＝一番上）から7枚引いて初手にする
func Expand(payload *models.DeckPayload, cat catalog.Lookup, randGen *rand.Rand) models.ZoneSet {
	var zones models.ZoneSet

	if payload.Commander != "" {
		zones.CommandZone = append(zones.CommandZone, mintCard(payload.Commander, "", "", cat))
	}

	for _, entry := range payload.Cards {
		for i := 0; i < entry.Quantity; i++ {
			zones.Library = append(zones.Library, mintCard(entry.Name, entry.ExternalID, entry.ImageRef, cat))
		}
	}

	Shuffle(zones.Library, randGen)
	drawOpeningHand(&zones)
	return zones
}

// Shuffle はFisher–Yates（Durstenfeld）でその場で並べ替えます。
func Shuffle(cards []*models.CardInstance, randGen *rand.Rand) {
	for i := len(cards) - 1; i >= 1; i-- {
		j := randGen.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

func drawOpeningHand(zones *models.ZoneSet) {
	for i := 0; i < OpeningHandSize && len(zones.Library) > 0; i++ {
		top := zones.Library[len(zones.Library)-1]
		zones.Library = zones.Library[:len(zones.Library)-1]
		zones.Hand = append(zones.Hand, top)
	}
}

// Reset はリスタート用の再展開です。カードは再発行せず全ゾーンから回収し、
// 統率者は名前の一致で統率領域に戻し、残りをシャッフルして初手を引き直します。
// 盤面状態（位置・タップ・カウンター・修整値）は回収の時点で破棄されています。
func Reset(player *models.PlayerState, randGen *rand.Rand) {
	cards := player.Zones.AllCards()

	var zones models.ZoneSet
	for _, card := range cards {
		if player.Commander != "" && card.CardName == player.Commander && len(zones.CommandZone) == 0 {
			zones.CommandZone = append(zones.CommandZone, card)
			continue
		}
		zones.Library = append(zones.Library, card)
	}

	Shuffle(zones.Library, randGen)
	drawOpeningHand(&zones)

	player.Zones = zones
	player.Life = models.StartingLife
}
