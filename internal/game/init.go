package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DeckEntry is one line of a player's deck list: which catalog card, how many
// copies, which deck zone the copies start in, and the chosen artwork.
type DeckEntry struct {
	CardID   string
	DeckZone string
	Quantity int
	Image    string
}

// DeckInfo identifies a player's active deck.
type DeckInfo struct {
	ID   string
	Name string
}

// RoomService supplies the players seated in a room, in seat order.
type RoomService interface {
	Players(ctx context.Context, roomID string) ([]string, error)
}

// DeckService supplies a player's active (preset-zero) deck and its entries.
type DeckService interface {
	ActiveDeck(ctx context.Context, playerID string) (*DeckInfo, error)
	DeckCards(ctx context.Context, deckID string) ([]DeckEntry, error)
}

// CardCatalog supplies printed card data and per-card abilities by catalog id.
type CardCatalog interface {
	Card(ctx context.Context, cardID string) (*CatalogCard, error)
	Abilities(ctx context.Context, cardID string) ([]CardAbility, error)
}

// FirstPlayerPicker chooses which of the two seated players goes first, e.g.
// from a coin flip. A nil picker defaults to the first seat.
type FirstPlayerPicker interface {
	Pick(ctx context.Context, player1ID, player2ID string) string
}

// deckZoneTargets routes deck-list entries into starting board zones. The
// deck-zone tag exists only at initialization; entries with any other tag are
// skipped.
var deckZoneTargets = map[string]Zone{
	"ride":  ZoneRide,
	"main":  ZoneDeck,
	"g":     ZoneGDeck,
	"token": ZoneToken,
}

// Initializer seeds a fresh GameState for a battle from the room's two
// players and their active decks, then persists it through the store.
type Initializer struct {
	store   Store
	rooms   RoomService
	decks   DeckService
	catalog CardCatalog
	picker  FirstPlayerPicker
	logger  *zap.Logger
}

// NewInitializer builds an initializer from its collaborators. picker may be
// nil, in which case the first seated player goes first.
func NewInitializer(store Store, rooms RoomService, decks DeckService, catalog CardCatalog, picker FirstPlayerPicker, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{
		store:   store,
		rooms:   rooms,
		decks:   decks,
		catalog: catalog,
		picker:  picker,
		logger:  logger,
	}
}

// Initialize creates and persists the starting state for a battle. The room
// must hold exactly two players and each player must have an active deck.
// Cards are stored fully visible: concealment of deck, g deck, ride line and
// tokens from the opponent happens at projection time, never at storage time.
func (ini *Initializer) Initialize(ctx context.Context, battleID, roomID string) (*GameState, error) {
	ini.logger.Info("initializing game state",
		zap.String("battle_id", battleID),
		zap.String("room_id", roomID),
	)

	players, err := ini.rooms.Players(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetching room players: %w", err)
	}
	if len(players) != 2 {
		return nil, fmt.Errorf("%w: room %s has %d", ErrInvalidPlayerCount, roomID, len(players))
	}

	fields := make([]*PlayerField, 2)
	for i, playerID := range players {
		field, err := ini.buildStartingField(ctx, playerID)
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}

	firstPlayer := players[0]
	if ini.picker != nil {
		if picked := ini.picker.Pick(ctx, players[0], players[1]); picked == players[0] || picked == players[1] {
			firstPlayer = picked
		}
	}

	now := time.Now().UTC()
	state := &GameState{
		BattleID:      battleID,
		RoomID:        roomID,
		Player1ID:     players[0],
		Player2ID:     players[1],
		FirstPlayer:   firstPlayer,
		TurnNumber:    1,
		CurrentPlayer: firstPlayer,
		Phase:         PhaseReset,
		Player1Field:  fields[0],
		Player2Field:  fields[1],
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if ok, errs := ValidateState(state); !ok {
		return nil, fmt.Errorf("%w: initial state invalid: %v", ErrInvalidField, errs)
	}
	if err := ini.store.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("persisting initial state: %w", err)
	}

	ini.logger.Info("game state initialized",
		zap.String("battle_id", battleID),
		zap.String("first_player", firstPlayer),
		zap.Int("player1_deck", len(fields[0].Deck)),
		zap.Int("player2_deck", len(fields[1].Deck)),
	)
	return state, nil
}

// buildStartingField resolves one player's active deck into a populated field.
func (ini *Initializer) buildStartingField(ctx context.Context, playerID string) (*PlayerField, error) {
	deck, err := ini.decks.ActiveDeck(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching active deck for %s: %w", playerID, err)
	}
	if deck == nil {
		return nil, fmt.Errorf("%w: player %s", ErrDeckNotFound, playerID)
	}

	entries, err := ini.decks.DeckCards(ctx, deck.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching deck cards for deck %s: %w", deck.ID, err)
	}

	field := NewPlayerField()
	for _, entry := range entries {
		target, ok := deckZoneTargets[entry.DeckZone]
		if !ok {
			ini.logger.Warn("skipping deck entry with unknown deck zone",
				zap.String("player_id", playerID),
				zap.String("card_id", entry.CardID),
				zap.String("deck_zone", entry.DeckZone),
			)
			continue
		}

		catalog, err := ini.catalog.Card(ctx, entry.CardID)
		if err != nil {
			return nil, fmt.Errorf("fetching catalog card %s: %w", entry.CardID, err)
		}
		if catalog == nil {
			ini.logger.Warn("skipping deck entry with no catalog card",
				zap.String("player_id", playerID),
				zap.String("card_id", entry.CardID),
			)
			continue
		}
		abilities, err := ini.catalog.Abilities(ctx, entry.CardID)
		if err != nil {
			return nil, fmt.Errorf("fetching abilities for card %s: %w", entry.CardID, err)
		}

		printed := *catalog
		if entry.Image != "" {
			printed.Image = entry.Image
		}

		zone, err := field.Zone(target)
		if err != nil {
			return nil, err
		}
		// Each copy is a distinct card instance with its own overlays.
		proto := BuildCard(printed, true, abilities, nil, nil, nil)
		for q := 0; q < entry.Quantity; q++ {
			zone = append(zone, proto.Clone())
		}
		if err := field.SetZone(target, zone); err != nil {
			return nil, err
		}
	}

	return field, nil
}
