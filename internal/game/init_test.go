package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRoomService struct {
	players map[string][]string
}

func (f *fakeRoomService) Players(_ context.Context, roomID string) ([]string, error) {
	return f.players[roomID], nil
}

type fakeDeckService struct {
	decks   map[string]*DeckInfo
	entries map[string][]DeckEntry
}

func (f *fakeDeckService) ActiveDeck(_ context.Context, playerID string) (*DeckInfo, error) {
	return f.decks[playerID], nil
}

func (f *fakeDeckService) DeckCards(_ context.Context, deckID string) ([]DeckEntry, error) {
	return f.entries[deckID], nil
}

type fakeCatalog struct {
	cards     map[string]*CatalogCard
	abilities map[string][]CardAbility
}

func (f *fakeCatalog) Card(_ context.Context, cardID string) (*CatalogCard, error) {
	return f.cards[cardID], nil
}

func (f *fakeCatalog) Abilities(_ context.Context, cardID string) ([]CardAbility, error) {
	return f.abilities[cardID], nil
}

type fixedPicker struct {
	pick string
}

func (p fixedPicker) Pick(_ context.Context, _, _ string) string { return p.pick }

func newInitFixture() (*fakeRoomService, *fakeDeckService, *fakeCatalog) {
	grassCatalog := sampleCatalogCard("main-1")
	rideCatalog := sampleCatalogCard("ride-1")
	rideCatalog.Grade = 0

	rooms := &fakeRoomService{players: map[string][]string{
		"room-1": {"p1", "p2"},
		"solo":   {"p1"},
	}}
	decks := &fakeDeckService{
		decks: map[string]*DeckInfo{
			"p1": {ID: "deck-p1", Name: "Royal Paladin"},
			"p2": {ID: "deck-p2", Name: "Kagero"},
		},
		entries: map[string][]DeckEntry{
			"deck-p1": {
				{CardID: "ride-1", DeckZone: "ride", Quantity: 1},
				{CardID: "main-1", DeckZone: "main", Quantity: 50},
			},
			"deck-p2": {
				{CardID: "ride-1", DeckZone: "ride", Quantity: 1},
				{CardID: "main-1", DeckZone: "main", Quantity: 50, Image: "alt/art"},
				{CardID: "main-1", DeckZone: "sideboard", Quantity: 4},
			},
		},
	}
	catalog := &fakeCatalog{
		cards: map[string]*CatalogCard{
			"main-1": &grassCatalog,
			"ride-1": &rideCatalog,
		},
		abilities: map[string][]CardAbility{
			"main-1": {{ID: "ab-1", AbilityDesc: "boost", Ability: map[string]any{"power": float64(2000)}}},
		},
	}
	return rooms, decks, catalog
}

func TestInitializeBuildsStartingState(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	store := NewMemoryStore()
	ini := NewInitializer(store, rooms, decks, catalog, nil, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)

	assert.Equal(t, "battle-1", state.BattleID)
	assert.Equal(t, "room-1", state.RoomID)
	assert.Equal(t, "p1", state.Player1ID)
	assert.Equal(t, "p2", state.Player2ID)
	assert.Equal(t, "p1", state.FirstPlayer, "seat order decides when no picker is given")
	assert.Equal(t, "p1", state.CurrentPlayer)
	assert.Equal(t, 1, state.TurnNumber)
	assert.Equal(t, PhaseReset, state.Phase)
	assert.False(t, state.CreatedAt.IsZero())
	assert.Equal(t, state.CreatedAt, state.UpdatedAt)

	require.Len(t, state.Player1Field.Deck, 50)
	require.Len(t, state.Player1Field.Ride, 1)
	assert.Empty(t, state.Player1Field.Hand)
	assert.Empty(t, state.Player1Field.Damage)

	// Persisted through the store, not only returned.
	loaded, err := store.Load(context.Background(), "battle-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Player2Field.Deck, 50)
}

func TestInitializeCardsStartVisibleWithAbilities(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)

	card := state.Player1Field.Deck[0]
	require.True(t, card.Visible())
	vc, ok := card.(*VisibleCard)
	require.True(t, ok)
	assert.Equal(t, "main-1", vc.ID)
	require.Len(t, vc.AbilityList, 1)
	assert.Equal(t, "ab-1", vc.AbilityList[0].ID)
}

func TestInitializeDeckCopiesAreIndependent(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)

	first := state.Player1Field.Deck[0].(*VisibleCard)
	second := state.Player1Field.Deck[1].(*VisibleCard)
	first.Status = append(first.Status, "boosted")
	assert.Empty(t, second.Status, "mutating one copy must not leak into its siblings")
}

func TestInitializeDeckEntryImageOverridesCatalog(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)

	p2Card := state.Player2Field.Deck[0].(*VisibleCard)
	assert.Equal(t, "alt/art", p2Card.Image)
	p1Card := state.Player1Field.Deck[0].(*VisibleCard)
	assert.Equal(t, "royal/blaster_dagger", p1Card.Image)
}

func TestInitializeSkipsUnknownDeckZone(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)

	// The sideboard entry has no board target and contributes no cards.
	total := 0
	for _, zone := range Zones {
		cards, zerr := state.Player2Field.Zone(zone)
		require.NoError(t, zerr)
		total += len(cards)
	}
	assert.Equal(t, 51, total)
}

func TestInitializePickerChoosesFirstPlayer(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, fixedPicker{pick: "p2"}, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)
	assert.Equal(t, "p2", state.FirstPlayer)
	assert.Equal(t, "p2", state.CurrentPlayer)
}

func TestInitializePickerOutsideRoomIsIgnored(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, fixedPicker{pick: "stranger"}, zap.NewNop())

	state, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", state.FirstPlayer)
}

func TestInitializeRequiresTwoPlayers(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	_, err := ini.Initialize(context.Background(), "battle-1", "solo")
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)

	_, err = ini.Initialize(context.Background(), "battle-1", "empty-room")
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)
}

func TestInitializeRequiresActiveDecks(t *testing.T) {
	rooms, decks, catalog := newInitFixture()
	delete(decks.decks, "p2")
	ini := NewInitializer(NewMemoryStore(), rooms, decks, catalog, nil, zap.NewNop())

	_, err := ini.Initialize(context.Background(), "battle-1", "room-1")
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.Contains(t, err.Error(), "p2")
}
