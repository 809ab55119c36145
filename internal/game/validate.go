package game

import "fmt"

// ValidateState runs the structural and semantic checks applied before any
// state is persisted: exactly two distinct players, phase and player
// membership, turn number bounds, and a complete, codec-valid field per
// player. It returns the full list of problems rather than stopping at the
// first, so a rejected state can be logged with context. Callable standalone
// by collaborators that need to trust a loaded state (e.g. after a manual
// data migration).
func ValidateState(s *GameState) (bool, []string) {
	if s == nil {
		return false, []string{"game state is nil"}
	}

	var errs []string

	if s.BattleID == "" {
		errs = append(errs, "missing battleId")
	}
	if s.Player1ID == "" {
		errs = append(errs, "missing player1Id")
	}
	if s.Player2ID == "" {
		errs = append(errs, "missing player2Id")
	}
	if s.Player1ID != "" && s.Player1ID == s.Player2ID {
		errs = append(errs, "player1Id and player2Id must be distinct")
	}
	if !s.HasPlayer(s.CurrentPlayer) {
		errs = append(errs, fmt.Sprintf("currentPlayer %q is not a registered player", s.CurrentPlayer))
	}
	if !s.HasPlayer(s.FirstPlayer) {
		errs = append(errs, fmt.Sprintf("firstPlayer %q is not a registered player", s.FirstPlayer))
	}
	if s.TurnNumber < 1 {
		errs = append(errs, fmt.Sprintf("turnNumber must be >= 1, got %d", s.TurnNumber))
	}
	if !s.Phase.Valid() {
		errs = append(errs, fmt.Sprintf("invalid phase %q", string(s.Phase)))
	}

	errs = append(errs, validateField(s.Player1Field, "player1Field")...)
	errs = append(errs, validateField(s.Player2Field, "player2Field")...)

	return len(errs) == 0, errs
}

// validateField checks one player field: every zone present (non-nil), the
// effect map present, and every card codec-valid. Catalog ids may repeat
// within a zone; a deck legitimately holds several copies of one card.
func validateField(f *PlayerField, label string) []string {
	if f == nil {
		return []string{label + " is missing"}
	}

	var errs []string
	for _, z := range Zones {
		ref := f.zoneRef(z)
		if *ref == nil {
			errs = append(errs, fmt.Sprintf("%s.%s zone is missing", label, z))
			continue
		}
		errs = append(errs, validateZoneCards(*ref, fmt.Sprintf("%s.%s", label, z))...)
	}
	if f.Effect == nil {
		errs = append(errs, label+".effect must be a mapping, not null")
	}
	return errs
}

func validateZoneCards(cards CardList, label string) []string {
	var errs []string
	for i, card := range cards {
		if ok, cardErrs := ValidateCard(card); !ok {
			for _, e := range cardErrs {
				errs = append(errs, fmt.Sprintf("%s[%d]: %s", label, i, e))
			}
		}
	}
	return errs
}

// ValidateZone checks a candidate zone replacement before it is applied.
func ValidateZone(z Zone, cards CardList) error {
	if !z.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidZone, string(z))
	}
	for i, card := range cards {
		if ok, errs := ValidateCard(card); !ok {
			return fmt.Errorf("%w: card %d: %s", ErrInvalidCard, i, errs[0])
		}
	}
	return nil
}
