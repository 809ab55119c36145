package game

import (
	"encoding/json"
	"time"
)

// EffectMap holds a field's continuous effects, keyed by effect identifier.
// It encodes as {} when empty or nil; the persisted form never omits it.
type EffectMap map[string]any

func (m EffectMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}

// Clone deep-copies the map through the JSON boundary, since effect
// descriptors are free-form documents.
func (m EffectMap) Clone() EffectMap {
	if m == nil {
		return EffectMap{}
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return EffectMap{}
	}
	var dup map[string]any
	if err := json.Unmarshal(raw, &dup); err != nil {
		return EffectMap{}
	}
	return EffectMap(dup)
}

// PlayerField is one player's half of the board: the fixed card zones plus
// the continuous-effect map. Every sub-region is always present on the wire,
// empty zones as [] and an empty effect map as {}.
type PlayerField struct {
	Ride        CardList `json:"ride"`
	Deck        CardList `json:"deck"`
	Hand        CardList `json:"hand"`
	Vanguard    CardList `json:"v"`
	LeftFront   CardList `json:"leftfront"`
	LeftBack    CardList `json:"leftback"`
	RightFront  CardList `json:"rightfront"`
	RightBack   CardList `json:"rightback"`
	VBack       CardList `json:"vback"`
	Damage      CardList `json:"damage"`
	Instruction CardList `json:"instruction"`
	Trigger     CardList `json:"trigger"`
	Crest       CardList `json:"coa"`
	G           CardList `json:"g"`
	GDeck       CardList `json:"gdeck"`
	Token       CardList `json:"token"`
	Seal        CardList `json:"seal"`

	Effect EffectMap `json:"effect"`
}

// NewPlayerField returns an empty field with every zone initialized.
func NewPlayerField() *PlayerField {
	f := &PlayerField{Effect: EffectMap{}}
	for _, z := range Zones {
		f.setZone(z, CardList{})
	}
	return f
}

// zoneRef returns a pointer to the named zone's card list, or nil when the
// name is not a board zone.
func (f *PlayerField) zoneRef(z Zone) *CardList {
	switch z {
	case ZoneRide:
		return &f.Ride
	case ZoneDeck:
		return &f.Deck
	case ZoneHand:
		return &f.Hand
	case ZoneVanguard:
		return &f.Vanguard
	case ZoneLeftFront:
		return &f.LeftFront
	case ZoneLeftBack:
		return &f.LeftBack
	case ZoneRightFront:
		return &f.RightFront
	case ZoneRightBack:
		return &f.RightBack
	case ZoneVBack:
		return &f.VBack
	case ZoneDamage:
		return &f.Damage
	case ZoneInstruction:
		return &f.Instruction
	case ZoneTrigger:
		return &f.Trigger
	case ZoneCrest:
		return &f.Crest
	case ZoneG:
		return &f.G
	case ZoneGDeck:
		return &f.GDeck
	case ZoneToken:
		return &f.Token
	case ZoneSeal:
		return &f.Seal
	}
	return nil
}

// Zone returns the contents of the named zone.
func (f *PlayerField) Zone(z Zone) (CardList, error) {
	ref := f.zoneRef(z)
	if ref == nil {
		return nil, ErrInvalidZone
	}
	return *ref, nil
}

func (f *PlayerField) setZone(z Zone, cards CardList) {
	if ref := f.zoneRef(z); ref != nil {
		*ref = cards
	}
}

// SetZone replaces the contents of the named zone, leaving every other zone
// untouched.
func (f *PlayerField) SetZone(z Zone, cards CardList) error {
	ref := f.zoneRef(z)
	if ref == nil {
		return ErrInvalidZone
	}
	if cards == nil {
		cards = CardList{}
	}
	*ref = cards
	return nil
}

// Normalize replaces nil sub-regions with empty containers so the encoded
// form always carries every key.
func (f *PlayerField) Normalize() {
	for _, z := range Zones {
		if ref := f.zoneRef(z); *ref == nil {
			*ref = CardList{}
		}
	}
	if f.Effect == nil {
		f.Effect = EffectMap{}
	}
}

// Clone deep-copies the field.
func (f *PlayerField) Clone() *PlayerField {
	dup := &PlayerField{Effect: f.Effect.Clone()}
	for _, z := range Zones {
		src := f.zoneRef(z)
		dup.setZone(z, src.Clone())
	}
	dup.Normalize()
	return dup
}

// GameState is the authoritative document of one battle. It is created once
// by the initializer, mutated only through the engine, and archived by an
// external cleanup collaborator when the battle ends.
type GameState struct {
	BattleID      string       `json:"battleId"`
	RoomID        string       `json:"roomId"`
	Player1ID     string       `json:"player1Id"`
	Player2ID     string       `json:"player2Id"`
	FirstPlayer   string       `json:"firstPlayer"`
	TurnNumber    int          `json:"turnNumber"`
	CurrentPlayer string       `json:"currentPlayer"`
	Phase         Phase        `json:"phase"`
	Player1Field  *PlayerField `json:"player1Field"`
	Player2Field  *PlayerField `json:"player2Field"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// HasPlayer reports whether playerID is one of the two registered players.
func (s *GameState) HasPlayer(playerID string) bool {
	return playerID == s.Player1ID || playerID == s.Player2ID
}

// Opponent returns the other registered player.
func (s *GameState) Opponent(playerID string) (string, error) {
	switch playerID {
	case s.Player1ID:
		return s.Player2ID, nil
	case s.Player2ID:
		return s.Player1ID, nil
	}
	return "", ErrUnknownPlayer
}

// FieldOf returns the field belonging to playerID.
func (s *GameState) FieldOf(playerID string) (*PlayerField, error) {
	switch playerID {
	case s.Player1ID:
		return s.Player1Field, nil
	case s.Player2ID:
		return s.Player2Field, nil
	}
	return nil, ErrUnknownPlayer
}

// setFieldOf replaces the field belonging to playerID.
func (s *GameState) setFieldOf(playerID string, field *PlayerField) error {
	switch playerID {
	case s.Player1ID:
		s.Player1Field = field
		return nil
	case s.Player2ID:
		s.Player2Field = field
		return nil
	}
	return ErrUnknownPlayer
}

// Clone deep-copies the state.
func (s *GameState) Clone() *GameState {
	dup := *s
	if s.Player1Field != nil {
		dup.Player1Field = s.Player1Field.Clone()
	}
	if s.Player2Field != nil {
		dup.Player2Field = s.Player2Field.Clone()
	}
	return &dup
}

// Encode renders the state into its persisted JSON form.
func (s *GameState) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState parses a persisted JSON document back into a GameState.
func DecodeState(data []byte) (*GameState, error) {
	var st GameState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Player1Field != nil {
		st.Player1Field.Normalize()
	}
	if st.Player2Field != nil {
		st.Player2Field.Normalize()
	}
	return &st, nil
}
