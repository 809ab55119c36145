package game

import (
	"encoding/json"
	"fmt"
)

// Card is the tagged union of the two card shapes that may appear in a zone.
// A HiddenCard carries nothing but the visibility flag; a VisibleCard carries
// the full catalog attributes plus the mutable overlays. Modelling this as a
// union (rather than one struct with optional members) makes information
// leakage from a hidden card impossible by construction.
type Card interface {
	json.Marshaler

	// Visible reports which variant this is.
	Visible() bool
	// Hide collapses the card to its hidden form. Idempotent.
	Hide() Card
	// Clone returns a deep copy of the card.
	Clone() Card
}

// CardAbility is one entry of a visible card's ability list.
type CardAbility struct {
	ID          string         `json:"id"`
	AbilityDesc string         `json:"ability_desc"`
	Ability     map[string]any `json:"ability"`
}

// AbilityGrant is an ability given to a card after it entered play, together
// with the policy for how long the grant lasts (e.g. "turn", "battle",
// "permanent").
type AbilityGrant struct {
	ID          string         `json:"id"`
	AbilityDesc string         `json:"ability_desc"`
	Ability     map[string]any `json:"ability"`
	Duration    string         `json:"duration"`
}

// CatalogCard is the catalog-sourced identity and printed attributes of a
// card, as supplied by the card catalog collaborator.
type CatalogCard struct {
	ID          string `json:"id"`
	NameCN      string `json:"name_cn"`
	Nation      string `json:"nation"`
	Clan        string `json:"clan"`
	Grade       int    `json:"grade"`
	Skill       string `json:"skill"`
	Power       int    `json:"card_power"`
	Shield      int    `json:"shield"`
	Critical    int    `json:"critical"`
	SpecialMark string `json:"special_mark"`
	CardType    string `json:"card_type"`
	TriggerType string `json:"trigger_type"`
	Ability     string `json:"ability"`
	CardAlias   string `json:"card_alias"`
	CardGroup   string `json:"card_group"`
	Image       string `json:"image"`
}

// HiddenCard is the concealed card variant. Its encoded form is exactly
// {"show":false}.
type HiddenCard struct{}

func (HiddenCard) Visible() bool { return false }

func (h HiddenCard) Hide() Card { return h }

func (h HiddenCard) Clone() Card { return HiddenCard{} }

func (HiddenCard) MarshalJSON() ([]byte, error) {
	return []byte(`{"show":false}`), nil
}

// VisibleCard is the revealed card variant: catalog attributes plus the four
// mutable overlays.
type VisibleCard struct {
	CatalogCard

	AbilityList       []CardAbility  `json:"ability_list"`
	Status            []string       `json:"status"`
	NormalEffect      map[string]int `json:"normal_effect"`
	AdditionalAbility []AbilityGrant `json:"additional_ability"`
}

func (*VisibleCard) Visible() bool { return true }

func (*VisibleCard) Hide() Card { return HiddenCard{} }

// Clone deep-copies the card, including overlay containers.
func (c *VisibleCard) Clone() Card {
	dup := &VisibleCard{CatalogCard: c.CatalogCard}
	if c.AbilityList != nil {
		dup.AbilityList = make([]CardAbility, len(c.AbilityList))
		for i, a := range c.AbilityList {
			dup.AbilityList[i] = CardAbility{ID: a.ID, AbilityDesc: a.AbilityDesc, Ability: cloneAnyMap(a.Ability)}
		}
	}
	if c.Status != nil {
		dup.Status = append([]string(nil), c.Status...)
	}
	if c.NormalEffect != nil {
		dup.NormalEffect = make(map[string]int, len(c.NormalEffect))
		for k, v := range c.NormalEffect {
			dup.NormalEffect[k] = v
		}
	}
	if c.AdditionalAbility != nil {
		dup.AdditionalAbility = make([]AbilityGrant, len(c.AdditionalAbility))
		for i, g := range c.AdditionalAbility {
			dup.AdditionalAbility[i] = AbilityGrant{ID: g.ID, AbilityDesc: g.AbilityDesc, Ability: cloneAnyMap(g.Ability), Duration: g.Duration}
		}
	}
	return dup
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return map[string]any{}
	}
	var dup map[string]any
	if err := json.Unmarshal(raw, &dup); err != nil {
		return map[string]any{}
	}
	return dup
}

// visibleCardWire is the encoded shape of a visible card. The show tag leads
// so that peeking decoders can dispatch on it.
type visibleCardWire struct {
	Show bool `json:"show"`

	ID          string `json:"id"`
	NameCN      string `json:"name_cn"`
	Nation      string `json:"nation"`
	Clan        string `json:"clan"`
	Grade       int    `json:"grade"`
	Skill       string `json:"skill"`
	Power       int    `json:"card_power"`
	Shield      int    `json:"shield"`
	Critical    int    `json:"critical"`
	SpecialMark string `json:"special_mark"`
	CardType    string `json:"card_type"`
	TriggerType string `json:"trigger_type"`
	Ability     string `json:"ability"`
	CardAlias   string `json:"card_alias"`
	CardGroup   string `json:"card_group"`
	Image       string `json:"image"`

	AbilityList       []CardAbility  `json:"ability_list"`
	Status            []string       `json:"status"`
	NormalEffect      map[string]int `json:"normal_effect"`
	AdditionalAbility []AbilityGrant `json:"additional_ability"`
}

func (c *VisibleCard) MarshalJSON() ([]byte, error) {
	w := visibleCardWire{
		Show:              true,
		ID:                c.ID,
		NameCN:            c.NameCN,
		Nation:            c.Nation,
		Clan:              c.Clan,
		Grade:             c.Grade,
		Skill:             c.Skill,
		Power:             c.Power,
		Shield:            c.Shield,
		Critical:          c.Critical,
		SpecialMark:       c.SpecialMark,
		CardType:          c.CardType,
		TriggerType:       c.TriggerType,
		Ability:           c.Ability,
		CardAlias:         c.CardAlias,
		CardGroup:         c.CardGroup,
		Image:             c.Image,
		AbilityList:       c.AbilityList,
		Status:            c.Status,
		NormalEffect:      c.NormalEffect,
		AdditionalAbility: c.AdditionalAbility,
	}
	// Overlay containers are always present on the wire, never null.
	if w.AbilityList == nil {
		w.AbilityList = []CardAbility{}
	}
	if w.Status == nil {
		w.Status = []string{}
	}
	if w.NormalEffect == nil {
		w.NormalEffect = map[string]int{}
	}
	if w.AdditionalAbility == nil {
		w.AdditionalAbility = []AbilityGrant{}
	}
	return json.Marshal(w)
}

// CardList is an ordered zone of cards. It owns the decode side of the Card
// union: each element is dispatched on its show tag. A nil list encodes as [].
type CardList []Card

func (l CardList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Card(l))
}

func (l *CardList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CardList, 0, len(raw))
	for i, msg := range raw {
		card, err := decodeCard(msg)
		if err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, card)
	}
	*l = out
	return nil
}

// Clone deep-copies the list.
func (l CardList) Clone() CardList {
	if l == nil {
		return nil
	}
	out := make(CardList, len(l))
	for i, c := range l {
		out[i] = c.Clone()
	}
	return out
}

func decodeCard(data []byte) (Card, error) {
	var tag struct {
		Show *bool `json:"show"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if tag.Show == nil {
		return nil, fmt.Errorf("%w: missing show flag", ErrInvalidCard)
	}
	if !*tag.Show {
		return HiddenCard{}, nil
	}
	var w visibleCardWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	return &VisibleCard{
		CatalogCard: CatalogCard{
			ID:          w.ID,
			NameCN:      w.NameCN,
			Nation:      w.Nation,
			Clan:        w.Clan,
			Grade:       w.Grade,
			Skill:       w.Skill,
			Power:       w.Power,
			Shield:      w.Shield,
			Critical:    w.Critical,
			SpecialMark: w.SpecialMark,
			CardType:    w.CardType,
			TriggerType: w.TriggerType,
			Ability:     w.Ability,
			CardAlias:   w.CardAlias,
			CardGroup:   w.CardGroup,
			Image:       w.Image,
		},
		AbilityList:       w.AbilityList,
		Status:            w.Status,
		NormalEffect:      w.NormalEffect,
		AdditionalAbility: w.AdditionalAbility,
	}, nil
}

// BuildCard assembles a card from catalog data and overlays. When visible is
// false the result is a HiddenCard no matter what else was supplied: hiding is
// enforced by construction, not by field omission. Nil overlays default to
// empty containers.
func BuildCard(catalog CatalogCard, visible bool, abilityList []CardAbility, status []string, normalEffect map[string]int, additional []AbilityGrant) Card {
	if !visible {
		return HiddenCard{}
	}
	if abilityList == nil {
		abilityList = []CardAbility{}
	}
	if status == nil {
		status = []string{}
	}
	if normalEffect == nil {
		normalEffect = map[string]int{}
	}
	if additional == nil {
		additional = []AbilityGrant{}
	}
	return &VisibleCard{
		CatalogCard:       catalog,
		AbilityList:       abilityList,
		Status:            status,
		NormalEffect:      normalEffect,
		AdditionalAbility: additional,
	}
}

// ValidateCard checks a card's shape. A hidden card is always valid; a visible
// card needs a non-empty catalog id (the overlay containers cannot be
// mis-shaped once the value type-checked, so only identity is left to verify).
func ValidateCard(card Card) (bool, []string) {
	if card == nil {
		return false, []string{"card is nil"}
	}
	if !card.Visible() {
		return true, nil
	}
	vc, ok := card.(*VisibleCard)
	if !ok {
		return false, []string{"visible card has unexpected concrete type"}
	}
	var errs []string
	if vc.ID == "" {
		errs = append(errs, "visible card is missing catalog id")
	}
	return len(errs) == 0, errs
}

// FilterByVisibility returns a list of the same length and order where every
// card whose id is not in allowedIDs is replaced by its hidden form. Cards
// that are already hidden stay hidden. A nil allowedIDs set means everything
// stays as-is. The source list is never mutated.
func FilterByVisibility(cards CardList, allowedIDs map[string]bool) CardList {
	if allowedIDs == nil {
		return cards.Clone()
	}
	out := make(CardList, len(cards))
	for i, c := range cards {
		vc, ok := c.(*VisibleCard)
		if !ok {
			out[i] = HiddenCard{}
			continue
		}
		if allowedIDs[vc.ID] {
			out[i] = vc.Clone()
		} else {
			out[i] = HiddenCard{}
		}
	}
	return out
}
