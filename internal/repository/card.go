package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vanguardsim/vanguard-server-go/internal/game"
)

// CardCatalogRepository serves printed card data and per-card abilities for
// the catalog collaborator contract.
type CardCatalogRepository struct {
	db *DB
}

// NewCardCatalogRepository builds the repository.
func NewCardCatalogRepository(db *DB) *CardCatalogRepository {
	return &CardCatalogRepository{db: db}
}

// Card returns the printed attributes of one catalog card, or nil when the
// card does not exist.
func (r *CardCatalogRepository) Card(ctx context.Context, cardID string) (*game.CatalogCard, error) {
	var c game.CatalogCard
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id::text,
		        COALESCE(name_cn, ''),
		        COALESCE(nation, ''),
		        COALESCE(clan, ''),
		        COALESCE(grade, 0),
		        COALESCE(skill, ''),
		        COALESCE(card_power, 0),
		        COALESCE(shield, 0),
		        COALESCE(critical, 0),
		        COALESCE(special_mark, ''),
		        COALESCE(card_type::text, ''),
		        COALESCE(trigger_type::text, ''),
		        COALESCE(ability, ''),
		        COALESCE(card_alias, ''),
		        COALESCE(card_group, '')
		 FROM cards
		 WHERE id = $1 AND is_deleted = false`,
		cardID,
	).Scan(
		&c.ID, &c.NameCN, &c.Nation, &c.Clan, &c.Grade, &c.Skill,
		&c.Power, &c.Shield, &c.Critical, &c.SpecialMark,
		&c.CardType, &c.TriggerType, &c.Ability, &c.CardAlias, &c.CardGroup,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog card %s: %w", cardID, err)
	}
	return &c, nil
}

// Abilities returns a card's ability list in stored order.
func (r *CardCatalogRepository) Abilities(ctx context.Context, cardID string) ([]game.CardAbility, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id::text, COALESCE(ability_desc, ''), COALESCE(ability, '{}'::jsonb)
		 FROM card_abilities
		 WHERE card_id = $1`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing abilities for card %s: %w", cardID, err)
	}
	defer rows.Close()

	var abilities []game.CardAbility
	for rows.Next() {
		var a game.CardAbility
		var raw []byte
		if err := rows.Scan(&a.ID, &a.AbilityDesc, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &a.Ability); err != nil {
			return nil, fmt.Errorf("decoding ability %s: %w", a.ID, err)
		}
		abilities = append(abilities, a)
	}
	return abilities, rows.Err()
}
