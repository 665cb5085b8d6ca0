package deck

import (
	"math/rand"
	"sort"
	"testing"

	"edhserver/models"
)

func testDeckPayload(mainSize int) *models.DeckPayload {
	payload := &models.DeckPayload{
		Name:      "Test Deck",
		Commander: "Atraxa, Praetors' Voice",
	}
	// 同名4枚＋残りは1枚ずつで合計mainSize枚
	payload.Cards = append(payload.Cards, models.DeckEntry{Name: "Forest", Quantity: 4})
	for i := 0; i < mainSize-4; i++ {
		payload.Cards = append(payload.Cards, models.DeckEntry{Name: "Card " + string(rune('A'+i%26)), Quantity: 1})
	}
	return payload
}

func TestExpandZoneCounts(t *testing.T) {
	randGen := rand.New(rand.NewSource(1))
	zones := Expand(testDeckPayload(99), nil, randGen)

	if got := len(zones.CommandZone); got != 1 {
		t.Fatalf("commandZone = %d cards, want 1", got)
	}
	if got := len(zones.Hand); got != OpeningHandSize {
		t.Fatalf("hand = %d cards, want %d", got, OpeningHandSize)
	}
	if got := len(zones.Library); got != 99-OpeningHandSize {
		t.Fatalf("library = %d cards, want %d", got, 99-OpeningHandSize)
	}
	if len(zones.Battlefield) != 0 || len(zones.Graveyard) != 0 || len(zones.Exile) != 0 {
		t.Fatal("battlefield/graveyard/exile should start empty")
	}
}

func TestExpandMintsUniqueInstanceIDs(t *testing.T) {
	randGen := rand.New(rand.NewSource(2))
	zones := Expand(testDeckPayload(60), nil, randGen)

	seen := make(map[string]bool)
	for _, id := range zones.InstanceIDs() {
		if id == "" {
			t.Fatal("empty instanceId")
		}
		if seen[id] {
			t.Fatalf("duplicate instanceId %q", id)
		}
		seen[id] = true
	}
	if len(seen) != 61 {
		t.Fatalf("minted %d instances, want 61", len(seen))
	}
}

func TestExpandShortDeck(t *testing.T) {
	randGen := rand.New(rand.NewSource(3))
	payload := &models.DeckPayload{
		Cards: []models.DeckEntry{{Name: "Island", Quantity: 5}},
	}
	zones := Expand(payload, nil, randGen)

	// 7枚未満のデッキは引けるだけ引いて止まる
	if got := len(zones.Hand); got != 5 {
		t.Fatalf("hand = %d cards, want 5", got)
	}
	if got := len(zones.Library); got != 0 {
		t.Fatalf("library = %d cards, want 0", got)
	}
	if len(zones.CommandZone) != 0 {
		t.Fatal("no commander was named, commandZone should be empty")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	cards := make([]*models.CardInstance, 40)
	for i := range cards {
		cards[i] = &models.CardInstance{InstanceID: string(rune('a' + i%26)) + string(rune('0'+i/26))}
	}
	before := make([]string, len(cards))
	for i, c := range cards {
		before[i] = c.InstanceID
	}

	Shuffle(cards, rand.New(rand.NewSource(4)))

	after := make([]string, len(cards))
	for i, c := range cards {
		after[i] = c.InstanceID
	}
	sortedBefore := append([]string(nil), before...)
	sortedAfter := append([]string(nil), after...)
	sort.Strings(sortedBefore)
	sort.Strings(sortedAfter)
	for i := range sortedBefore {
		if sortedBefore[i] != sortedAfter[i] {
			t.Fatal("shuffle changed the multiset of cards")
		}
	}
}

func TestResetRecoversAllCards(t *testing.T) {
	randGen := rand.New(rand.NewSource(5))
	player := &models.PlayerState{
		PlayerID:  "p1",
		Commander: "Atraxa, Praetors' Voice",
		Zones:     Expand(testDeckPayload(30), nil, randGen),
		Life:      12,
	}

	original := append([]string(nil), player.Zones.InstanceIDs()...)
	sort.Strings(original)

	// ゲーム中の状態を雑に再現：戦場に出す、墓地に送る、トークンを置く
	card, _ := player.Zones.TakeCard(models.ZoneHand, player.Zones.Hand[0].InstanceID)
	player.Zones.Battlefield = append(player.Zones.Battlefield, &models.BoardCardInstance{
		CardInstance: *card, X: 0.5, Y: 0.5, Tapped: true, CounterCount: 3,
	})
	grave, _ := player.Zones.TakeCard(models.ZoneLibrary, player.Zones.Library[0].InstanceID)
	player.Zones.PutCard(models.ZoneGraveyard, grave)
	player.Zones.Battlefield = append(player.Zones.Battlefield, &models.BoardCardInstance{
		CardInstance: models.CardInstance{InstanceID: "token-1", CardName: "Soldier"},
		IsToken:      true,
	})

	Reset(player, randGen)

	if player.Life != models.StartingLife {
		t.Fatalf("life = %d, want %d", player.Life, models.StartingLife)
	}
	if len(player.Zones.CommandZone) != 1 || player.Zones.CommandZone[0].CardName != player.Commander {
		t.Fatal("commander did not return to the command zone")
	}
	if got := len(player.Zones.Hand); got != OpeningHandSize {
		t.Fatalf("hand = %d cards, want %d", got, OpeningHandSize)
	}
	if len(player.Zones.Battlefield) != 0 || len(player.Zones.Graveyard) != 0 {
		t.Fatal("battlefield/graveyard should be empty after reset")
	}

	// トークンは消え、元のカードは1枚も失われない
	recovered := append([]string(nil), player.Zones.InstanceIDs()...)
	sort.Strings(recovered)
	if len(recovered) != len(original) {
		t.Fatalf("recovered %d cards, want %d", len(recovered), len(original))
	}
	for i := range original {
		if recovered[i] != original[i] {
			t.Fatal("instanceIds changed across reset")
		}
	}
}
