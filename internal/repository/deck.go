package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// DeckRepository reads a player's active deck and its card entries. Preset
// zero marks the deck a player currently battles with.
type DeckRepository struct {
	db *DB
}

// NewDeckRepository builds the repository.
func NewDeckRepository(db *DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// ActiveDeck returns the player's preset-zero deck, or nil when the player
// has none.
func (r *DeckRepository) ActiveDeck(ctx context.Context, playerID string) (*game.DeckInfo, error) {
	var info game.DeckInfo
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, deck_name
		 FROM deck
		 WHERE user_id = $1 AND preset = 0 AND is_deleted = false`,
		playerID,
	).Scan(&info.ID, &info.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading active deck for player %s: %w", playerID, err)
	}
	return &info, nil
}

// DeckCards returns every entry of a deck: card, starting deck zone, copy
// count and chosen artwork.
func (r *DeckRepository) DeckCards(ctx context.Context, deckID string) ([]game.DeckEntry, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT card_id, deck_zone, quantity, image
		 FROM deckcard
		 WHERE deck_id = $1 AND is_deleted = false
		 ORDER BY position NULLS LAST, create_time`,
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var entries []game.DeckEntry
	for rows.Next() {
		var e game.DeckEntry
		if err := rows.Scan(&e.CardID, &e.DeckZone, &e.Quantity, &e.Image); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
