package game

import "fmt"

// Visibility classifies how much of an opponent-owned zone a viewer may see.
type Visibility int

const (
	// VisibilityPublic zones are shown to both players as stored.
	VisibilityPublic Visibility = iota
	// VisibilityOwnerOnly zones show only hidden cards to the opponent.
	VisibilityOwnerOnly
	// VisibilityCountOnly zones reveal how many cards they hold but not
	// which; the projection keeps length and hides every card.
	VisibilityCountOnly
)

// DefaultVisibility is the canonical per-zone policy. Board circles are
// public; concealed resources (deck order, hand, g deck, ride line, tokens,
// pending trigger checks) are owner-only; the damage zone reveals its count
// but not card identity.
var DefaultVisibility = map[Zone]Visibility{
	ZoneRide:        VisibilityOwnerOnly,
	ZoneDeck:        VisibilityOwnerOnly,
	ZoneHand:        VisibilityOwnerOnly,
	ZoneVanguard:    VisibilityPublic,
	ZoneLeftFront:   VisibilityPublic,
	ZoneLeftBack:    VisibilityPublic,
	ZoneRightFront:  VisibilityPublic,
	ZoneRightBack:   VisibilityPublic,
	ZoneVBack:       VisibilityPublic,
	ZoneDamage:      VisibilityCountOnly,
	ZoneInstruction: VisibilityPublic,
	ZoneTrigger:     VisibilityOwnerOnly,
	ZoneCrest:       VisibilityPublic,
	ZoneG:           VisibilityPublic,
	ZoneGDeck:       VisibilityOwnerOnly,
	ZoneToken:       VisibilityOwnerOnly,
	ZoneSeal:        VisibilityPublic,
}

// Projector derives viewer-specific redactions of a game state. The policy
// table is configuration: a projector built with nil policy uses
// DefaultVisibility.
type Projector struct {
	policy map[Zone]Visibility
}

// NewProjector returns a projector using the given policy table, or the
// default table when policy is nil.
func NewProjector(policy map[Zone]Visibility) *Projector {
	if policy == nil {
		policy = DefaultVisibility
	}
	return &Projector{policy: policy}
}

// ProjectForPlayer returns a deep copy of state redacted for delivery to
// viewerID: the viewer's own field is left intact, while the opponent's
// owner-only and count-only zones have every card collapsed to its hidden
// form. The source state is never mutated. The canonical stored state is
// always fully visible to the engine; hiding is strictly a projection-time
// concern.
func (p *Projector) ProjectForPlayer(state *GameState, viewerID string) (*GameState, error) {
	if !state.HasPlayer(viewerID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, viewerID)
	}

	projected := state.Clone()
	opponent, err := projected.Opponent(viewerID)
	if err != nil {
		return nil, err
	}
	opposingField, err := projected.FieldOf(opponent)
	if err != nil {
		return nil, err
	}

	for _, z := range Zones {
		if p.policy[z] == VisibilityPublic {
			continue
		}
		cards, err := opposingField.Zone(z)
		if err != nil {
			return nil, err
		}
		hidden := make(CardList, len(cards))
		for i, c := range cards {
			hidden[i] = c.Hide()
		}
		if err := opposingField.SetZone(z, hidden); err != nil {
			return nil, err
		}
	}

	return projected, nil
}
